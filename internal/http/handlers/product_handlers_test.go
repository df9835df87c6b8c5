package handlers_test

import (
	"bytes"
	"net/http"
	"testing"

	handler "github.com/rogerio-castellano/retail-inventory/internal/http/handlers"
)

func TestCreateProductHandler_Valid(t *testing.T) {
	env := newTestEnv(t)

	w := env.sendJSON(http.MethodPost, "/api/products", fullProduct("  LB-9 "), "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}

	resp := decode[handler.ProductResult](t, w)
	if !resp.Success {
		t.Error("expected success true")
	}
	if resp.Data.ID == "" {
		t.Error("expected an id")
	}
	if resp.Data.ItemCode != "LB-9" {
		t.Errorf("expected trimmed item code LB-9, got %q", resp.Data.ItemCode)
	}
	if resp.Data.CreatedAt.IsZero() || resp.Data.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestCreateProductHandler_Invalid(t *testing.T) {
	env := newTestEnv(t)

	negative := fullProduct("N1")
	negative.MRP = numPtr(-1)
	overRange := fullProduct("N2")
	overRange.Percentage = numPtr(101)
	noNumbers := handler.ProductRequest{ItemCode: strPtr("N3"), ItemDescription: strPtr("x"), Unit: strPtr("pcs")}

	tests := []struct {
		name           string
		payload        handler.ProductRequest
		expectedErrors []string
	}{
		{"Empty body", handler.ProductRequest{}, []string{"Item code is required", "Item description is required", "Unit is required", "MRP is required"}},
		{"Negative MRP", negative, []string{"MRP cannot be negative"}},
		{"Percentage out of range", overRange, []string{"Percentage must be between 0 and 100"}},
		{"Missing numbers", noNumbers, []string{"MRP is required", "DP is required", "NLC is required", "Percentage is required"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.sendJSON(http.MethodPost, "/api/products", tt.payload, "")
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", w.Code)
			}

			resp := decode[handler.ValidationErrorResponse](t, w)
			if resp.Success {
				t.Error("expected success false")
			}
			for _, want := range tt.expectedErrors {
				found := false
				for _, got := range resp.Error {
					if got == want {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("expected error %q in %v", want, resp.Error)
				}
			}
		})
	}
}

func TestCreateProductHandler_Duplicate(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(t, "DUP")

	w := env.sendJSON(http.MethodPost, "/api/products", fullProduct("DUP"), "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	resp := decode[handler.ErrorResponse](t, w)
	if resp.Error != "Product with this item code already exists" {
		t.Errorf("unexpected error %q", resp.Error)
	}
}

func TestCreateProductHandler_MalformedJSON(t *testing.T) {
	env := newTestEnv(t)

	badJSON := `{itemCode: "X" mrp: 1 "}` // missing comma
	w := env.request(http.MethodPost, "/api/products", bytes.NewBufferString(badJSON), "application/json", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 Bad Request, got %d", w.Code)
	}
}

func TestGetProductsHandler(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(t, "A")
	env.seedProduct(t, "B")

	w := env.request(http.MethodGet, "/api/products", nil, "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decode[handler.ProductsResult](t, w)
	if resp.Count != 2 || len(resp.Data) != 2 {
		t.Errorf("expected 2 products, got count=%d len=%d", resp.Count, len(resp.Data))
	}
}

func TestGetProductHandler(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "A")

	t.Run("found", func(t *testing.T) {
		w := env.request(http.MethodGet, "/api/products/"+p.ID, nil, "", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		resp := decode[handler.ProductResult](t, w)
		if resp.Data.ItemCode != "A" {
			t.Errorf("expected item code A, got %q", resp.Data.ItemCode)
		}
	})

	t.Run("not found", func(t *testing.T) {
		w := env.request(http.MethodGet, "/api/products/missing", nil, "", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
		resp := decode[handler.ErrorResponse](t, w)
		if resp.Error != "Product not found" {
			t.Errorf("unexpected error %q", resp.Error)
		}
	})
}

func TestUpdateProductHandler(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "A")
	env.seedProduct(t, "B")

	t.Run("partial update keeps other fields", func(t *testing.T) {
		w := env.sendJSON(http.MethodPut, "/api/products/"+p.ID, handler.ProductRequest{MRP: numPtr(250)}, "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		resp := decode[handler.ProductResult](t, w)
		if resp.Data.MRP != 250 || resp.Data.Unit != "pcs" || resp.Data.ItemCode != "A" {
			t.Errorf("unexpected product after update: %+v", resp.Data)
		}
		if !resp.Data.UpdatedAt.After(p.UpdatedAt) {
			t.Error("expected updatedAt to move forward")
		}
	})

	t.Run("same item code is allowed", func(t *testing.T) {
		w := env.sendJSON(http.MethodPut, "/api/products/"+p.ID, handler.ProductRequest{ItemCode: strPtr("A")}, "")
		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	})

	t.Run("item code taken", func(t *testing.T) {
		w := env.sendJSON(http.MethodPut, "/api/products/"+p.ID, handler.ProductRequest{ItemCode: strPtr("B")}, "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		resp := decode[handler.ErrorResponse](t, w)
		if resp.Error != "Product with this item code already exists" {
			t.Errorf("unexpected error %q", resp.Error)
		}
	})

	t.Run("invalid merged value", func(t *testing.T) {
		w := env.sendJSON(http.MethodPut, "/api/products/"+p.ID, handler.ProductRequest{Percentage: numPtr(300)}, "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		resp := decode[handler.ValidationErrorResponse](t, w)
		if len(resp.Error) != 1 || resp.Error[0] != "Percentage must be between 0 and 100" {
			t.Errorf("unexpected errors %v", resp.Error)
		}
	})

	t.Run("not found", func(t *testing.T) {
		w := env.sendJSON(http.MethodPut, "/api/products/missing", handler.ProductRequest{MRP: numPtr(1)}, "")
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})
}

func TestDeleteProductHandler(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "A")

	w := env.request(http.MethodDelete, "/api/products/"+p.ID, nil, "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := w.Body.String(); body != `{"success":true,"data":{}}` {
		t.Errorf("unexpected body %s", body)
	}

	w = env.request(http.MethodDelete, "/api/products/"+p.ID, nil, "", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", w.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(http.MethodGet, "/health", nil, "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decode[handler.HealthResult](t, w)
	if !resp.Success || resp.Data.Store != "memory" {
		t.Errorf("unexpected health response %+v", resp)
	}
}
