package repo

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/retail-inventory/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products []models.Product
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: []models.Product{},
	}
}

// GetAll retrieves all products from the repository.
func (r *InMemoryProductRepository) GetAll(_ context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

// GetByID retrieves a product by its ID.
func (r *InMemoryProductRepository) GetByID(_ context.Context, id string) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

func (r *InMemoryProductRepository) GetByItemCode(_ context.Context, itemCode string) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOfItemCode(itemCode); i >= 0 {
		return r.products[i], nil
	}
	return models.Product{}, ErrProductNotFound
}

func (r *InMemoryProductRepository) ExistingItemCodes(_ context.Context, itemCodes []string) (map[string]bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]bool, len(itemCodes))
	for _, code := range itemCodes {
		wanted[code] = true
	}

	existing := map[string]bool{}
	for _, p := range r.products {
		if wanted[p.ItemCode] {
			existing[p.ItemCode] = true
		}
	}
	return existing, nil
}

// Create adds a new product to the repository.
func (r *InMemoryProductRepository) Create(_ context.Context, product models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.insert(product)
}

// Update modifies an existing product in the repository.
func (r *InMemoryProductRepository) Update(_ context.Context, product models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexOfItemCode(product.ItemCode); i >= 0 && r.products[i].ID != product.ID {
		return models.Product{}, ErrDuplicatedValueUnique
	}

	for i, p := range r.products {
		if p.ID == product.ID {
			r.products[i] = product
			return product, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

// Delete removes a product from the repository by its ID.
func (r *InMemoryProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return ErrProductNotFound
}

func (r *InMemoryProductRepository) InsertMany(_ context.Context, products []models.Product) (InsertManyResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res InsertManyResult
	for _, p := range products {
		created, err := r.insert(p)
		if err != nil {
			res.FailedKeys = append(res.FailedKeys, p.ItemCode)
			continue
		}
		res.Inserted = append(res.Inserted, created)
	}
	return res, nil
}

func (r *InMemoryProductRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products = []models.Product{}
}

// insert expects r.mu to be held.
func (r *InMemoryProductRepository) insert(product models.Product) (models.Product, error) {
	if r.indexOfItemCode(product.ItemCode) >= 0 {
		return models.Product{}, ErrDuplicatedValueUnique
	}
	product.ID = uuid.NewString()
	r.products = append(r.products, product)
	return product, nil
}

func (r *InMemoryProductRepository) indexOfItemCode(itemCode string) int {
	for i, p := range r.products {
		if p.ItemCode == itemCode {
			return i
		}
	}
	return -1
}
