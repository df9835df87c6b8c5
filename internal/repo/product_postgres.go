package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rogerio-castellano/retail-inventory/internal/models"
)

const productColumns = `id, item_code, item_description, unit, mrp, dp, nlc, percentage, created_at, updated_at`

type PostgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

func (r *PostgresProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, id string) (models.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

func (r *PostgresProductRepository) GetByItemCode(ctx context.Context, itemCode string) (models.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE item_code = $1`, itemCode)
}

func (r *PostgresProductRepository) ExistingItemCodes(ctx context.Context, itemCodes []string) (map[string]bool, error) {
	existing := map[string]bool{}
	if len(itemCodes) == 0 {
		return existing, nil
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT item_code FROM products WHERE item_code = ANY($1)`, itemCodes)
	if err != nil {
		return nil, fmt.Errorf("failed to look up item codes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		existing[code] = true
	}
	return existing, rows.Err()
}

func (r *PostgresProductRepository) Create(ctx context.Context, p models.Product) (models.Product, error) {
	query := `INSERT INTO products (` + productColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx, query, p.ID, p.ItemCode, p.ItemDescription, p.Unit, p.MRP, p.DP, p.NLC, p.Percentage, p.CreatedAt, p.UpdatedAt)
	if isUniqueViolation(err) {
		return models.Product{}, ErrDuplicatedValueUnique
	}
	if err != nil {
		return models.Product{}, err
	}
	return p, nil
}

func (r *PostgresProductRepository) Update(ctx context.Context, p models.Product) (models.Product, error) {
	query := `UPDATE products SET item_code = $1, item_description = $2, unit = $3, mrp = $4, dp = $5, nlc = $6, percentage = $7, updated_at = $8 WHERE id = $9`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, p.ItemCode, p.ItemDescription, p.Unit, p.MRP, p.DP, p.NLC, p.Percentage, p.UpdatedAt, p.ID)
	if isUniqueViolation(err) {
		return models.Product{}, ErrDuplicatedValueUnique
	}
	if err != nil {
		return models.Product{}, err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return models.Product{}, ErrProductNotFound
	}
	return p, nil
}

func (r *PostgresProductRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// InsertMany inserts each product independently; rows whose item code already
// exists are skipped by ON CONFLICT and reported in FailedKeys.
func (r *PostgresProductRepository) InsertMany(ctx context.Context, products []models.Product) (InsertManyResult, error) {
	query := `INSERT INTO products (` + productColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (item_code) DO NOTHING RETURNING id`

	var res InsertManyResult
	for _, p := range products {
		p.ID = uuid.NewString()

		qctx, cancel := context.WithTimeout(ctx, queryTimeout)
		var id string
		err := r.db.QueryRowContext(qctx, query, p.ID, p.ItemCode, p.ItemDescription, p.Unit, p.MRP, p.DP, p.NLC, p.Percentage, p.CreatedAt, p.UpdatedAt).Scan(&id)
		cancel()

		if errors.Is(err, sql.ErrNoRows) {
			res.FailedKeys = append(res.FailedKeys, p.ItemCode)
			continue
		}
		if err != nil {
			return res, fmt.Errorf("failed to insert product %q: %w", p.ItemCode, err)
		}
		res.Inserted = append(res.Inserted, p)
	}
	return res, nil
}

func (r *PostgresProductRepository) getOne(ctx context.Context, query string, arg any) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.ItemCode, &p.ItemDescription, &p.Unit, &p.MRP, &p.DP, &p.NLC, &p.Percentage, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
