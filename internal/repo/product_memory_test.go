package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/rogerio-castellano/retail-inventory/internal/models"
)

func TestInMemoryProductRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	r := NewInMemoryProductRepository()

	created, err := r.Create(ctx, models.Product{ItemCode: "A", Unit: "pcs"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected an id")
	}
	if _, err := r.Create(ctx, models.Product{ItemCode: "A"}); !errors.Is(err, ErrDuplicatedValueUnique) {
		t.Errorf("expected duplicate error, got %v", err)
	}

	created.Unit = "box"
	if _, err := r.Update(ctx, created); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := r.GetByItemCode(ctx, "A")
	if got.Unit != "box" {
		t.Errorf("expected updated unit, got %q", got.Unit)
	}

	other, _ := r.Create(ctx, models.Product{ItemCode: "B"})
	other.ItemCode = "A"
	if _, err := r.Update(ctx, other); !errors.Is(err, ErrDuplicatedValueUnique) {
		t.Errorf("expected duplicate error on update, got %v", err)
	}

	if err := r.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := r.GetByID(ctx, created.ID); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
	if err := r.Delete(ctx, created.ID); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}

func TestInMemoryProductRepository_ExistingItemCodes(t *testing.T) {
	ctx := context.Background()
	r := NewInMemoryProductRepository()
	r.Create(ctx, models.Product{ItemCode: "A"})
	r.Create(ctx, models.Product{ItemCode: "B"})

	got, err := r.ExistingItemCodes(ctx, []string{"A", "C"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || !got["A"] {
		t.Errorf("expected only A, got %v", got)
	}
}

func TestInMemoryProductRepository_InsertManyIsBestEffort(t *testing.T) {
	ctx := context.Background()
	r := NewInMemoryProductRepository()
	r.Create(ctx, models.Product{ItemCode: "B"})

	res, err := r.InsertMany(ctx, []models.Product{{ItemCode: "A"}, {ItemCode: "B"}, {ItemCode: "C"}, {ItemCode: "A"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Inserted) != 2 {
		t.Errorf("expected 2 inserted, got %d", len(res.Inserted))
	}
	if len(res.FailedKeys) != 2 || res.FailedKeys[0] != "B" || res.FailedKeys[1] != "A" {
		t.Errorf("expected failed keys [B A], got %v", res.FailedKeys)
	}
	all, _ := r.GetAll(ctx)
	if len(all) != 3 {
		t.Errorf("expected 3 stored products, got %d", len(all))
	}
}
