// Package importer turns uploaded spreadsheets into product inserts.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rogerio-castellano/retail-inventory/internal/models"
	"github.com/rogerio-castellano/retail-inventory/internal/repo"
)

var ErrEmptyFile = errors.New("excel file is empty")

// ValidationError is returned when every row of a submission failed validation.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation errors in excel file: %s", strings.Join(e.Details, "; "))
}

// Result reports what an import persisted and what it left out.
type Result struct {
	Inserted   []models.Product
	Skipped    []Skipped
	Errors     []string
	FailedKeys []string
}

type Importer struct {
	products repo.ProductRepository
	now      func() time.Time
}

func New(products repo.ProductRepository) *Importer {
	return &Importer{products: products, now: time.Now}
}

// ImportFile reads the spreadsheet at path and imports its rows.
func (im *Importer) ImportFile(ctx context.Context, path string, format Format) (Result, error) {
	rows, err := ReadFile(path, format)
	if err != nil {
		return Result{}, err
	}
	return im.Import(ctx, rows)
}

// Import reconciles rows against the store and inserts the accepted ones.
// Uniqueness races during insertion are reported in Result.FailedKeys.
func (im *Importer) Import(ctx context.Context, rows []Row) (Result, error) {
	if len(rows) == 0 {
		return Result{}, ErrEmptyFile
	}

	existing, err := im.products.ExistingItemCodes(ctx, CollectItemCodes(rows))
	if err != nil {
		return Result{}, fmt.Errorf("lookup existing item codes: %w", err)
	}

	plan := Reconcile(rows, existing)
	if len(plan.Errors) > 0 && len(plan.ToInsert) == 0 {
		return Result{}, &ValidationError{Details: plan.Errors}
	}

	result := Result{Skipped: plan.Skipped, Errors: plan.Errors}
	if len(plan.ToInsert) == 0 {
		return result, nil
	}

	now := im.now().UTC()
	for i := range plan.ToInsert {
		plan.ToInsert[i].CreatedAt = now
		plan.ToInsert[i].UpdatedAt = now
	}

	inserted, err := im.products.InsertMany(ctx, plan.ToInsert)
	if err != nil {
		return Result{}, fmt.Errorf("insert products: %w", err)
	}
	result.Inserted = inserted.Inserted
	result.FailedKeys = inserted.FailedKeys
	return result, nil
}
