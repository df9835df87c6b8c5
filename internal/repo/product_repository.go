package repo

import (
	"context"

	"github.com/rogerio-castellano/retail-inventory/internal/models"
)

// InsertManyResult reports the outcome of an unordered bulk insert. Records that
// violated a unique key are listed by item code in FailedKeys instead of failing
// the whole batch.
type InsertManyResult struct {
	Inserted   []models.Product
	FailedKeys []string
}

// ProductRepository defines the interface for product data operations.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (models.Product, error)
	GetByItemCode(ctx context.Context, itemCode string) (models.Product, error)
	// ExistingItemCodes returns the subset of itemCodes already stored, in one lookup.
	ExistingItemCodes(ctx context.Context, itemCodes []string) (map[string]bool, error)
	Create(ctx context.Context, product models.Product) (models.Product, error)
	Update(ctx context.Context, product models.Product) (models.Product, error)
	Delete(ctx context.Context, id string) error
	InsertMany(ctx context.Context, products []models.Product) (InsertManyResult, error)
}
