package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/retail-inventory/internal/models"
)

const userColumns = `id, name, role, email, phone_number, password_hash, created_at, updated_at`

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	query := `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	u.ID = uuid.NewString()
	rec := flattenUser(u)
	_, err := r.db.ExecContext(ctx, query, rec.ID, rec.Name, string(rec.Role),
		nullable(rec.Email), nullable(rec.PhoneNumber), nullable(rec.PasswordHash), rec.CreatedAt, rec.UpdatedAt)
	if isUniqueViolation(err) {
		return models.User{}, ErrDuplicatedValueUnique
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *PostgresUserRepository) FindOne(ctx context.Context, f UserFilter) (models.User, error) {
	var conditions []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if f.Role != "" {
		add("role", string(f.Role))
	}
	if f.Email != "" {
		add("email", f.Email)
	}
	if f.PhoneNumber != "" {
		add("phone_number", f.PhoneNumber)
	}
	if len(conditions) == 0 {
		return models.User{}, ErrUserNotFound
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE ` + strings.Join(conditions, " AND ") + ` LIMIT 1`
	return r.getOne(ctx, query, args...)
}

func (r *PostgresUserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PostgresUserRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PostgresUserRepository) getOne(ctx context.Context, query string, args ...any) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return u, err
}

func scanUser(row rowScanner) (models.User, error) {
	var rec userRecord
	var email, phone, hash sql.NullString
	err := row.Scan(&rec.ID, &rec.Name, &rec.Role, &email, &phone, &hash, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return models.User{}, err
	}
	rec.Email, rec.PhoneNumber, rec.PasswordHash = email.String, phone.String, hash.String
	return rec.model(), nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
