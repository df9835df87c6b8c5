package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/retail-inventory/internal/models"
	"github.com/rogerio-castellano/retail-inventory/internal/repo"
)

const (
	msgProductNotFound  = "Product not found"
	msgDuplicateProduct = "Product with this item code already exists"
)

// GetProductsHandler godoc
// @Summary List products
// @Tags products
// @Produce json
// @Success 200 {object} ProductsResult
// @Failure 500 {object} ErrorResponse
// @Router /api/products [get]
func (h *Handler) GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.GetAll(r.Context())
	if err != nil {
		h.serverError(w, r, "failed to list products", err)
		return
	}
	h.respond(w, r, http.StatusOK, ProductsResult{Success: true, Count: len(products), Data: products})
}

// GetProductHandler godoc
// @Summary Get a product by id
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} ProductResult
// @Failure 404 {object} ErrorResponse
// @Router /api/products/{id} [get]
func (h *Handler) GetProductHandler(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			h.fail(w, r, http.StatusNotFound, msgProductNotFound)
			return
		}
		h.serverError(w, r, "failed to get product", err)
		return
	}
	h.respond(w, r, http.StatusOK, ProductResult{Success: true, Data: product})
}

// CreateProductHandler godoc
// @Summary Create a new product
// @Description Adds a product to the catalog. The item code must be unique.
// @Tags products
// @Accept json
// @Produce json
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} ProductResult
// @Failure 400 {object} ValidationErrorResponse
// @Router /api/products [post]
func (h *Handler) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		h.fail(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	var product models.Product
	req.applyTo(&product)
	errs := append(req.missingNumbers(), validateProduct(product)...)
	if len(errs) > 0 {
		h.respond(w, r, http.StatusBadRequest, ValidationErrorResponse{Success: false, Error: errs})
		return
	}

	ctx := r.Context()
	if _, err := h.products.GetByItemCode(ctx, product.ItemCode); err == nil {
		h.fail(w, r, http.StatusBadRequest, msgDuplicateProduct)
		return
	} else if !errors.Is(err, repo.ErrProductNotFound) {
		h.serverError(w, r, "failed to check item code", err)
		return
	}

	now := h.now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	created, err := h.products.Create(ctx, product)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			h.fail(w, r, http.StatusBadRequest, msgDuplicateProduct)
			return
		}
		h.serverError(w, r, "failed to create product", err)
		return
	}
	h.respond(w, r, http.StatusCreated, ProductResult{Success: true, Data: created})
}

// UpdateProductHandler godoc
// @Summary Update a product
// @Description Fields omitted from the body keep their stored value.
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param product body ProductRequest true "Fields to change"
// @Success 200 {object} ProductResult
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/products/{id} [put]
func (h *Handler) UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	product, err := h.products.GetByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			h.fail(w, r, http.StatusNotFound, msgProductNotFound)
			return
		}
		h.serverError(w, r, "failed to get product", err)
		return
	}

	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		h.fail(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	previousCode := product.ItemCode
	req.applyTo(&product)
	if product.ItemCode != previousCode && product.ItemCode != "" {
		if _, err := h.products.GetByItemCode(ctx, product.ItemCode); err == nil {
			h.fail(w, r, http.StatusBadRequest, msgDuplicateProduct)
			return
		} else if !errors.Is(err, repo.ErrProductNotFound) {
			h.serverError(w, r, "failed to check item code", err)
			return
		}
	}

	if errs := validateProduct(product); len(errs) > 0 {
		h.respond(w, r, http.StatusBadRequest, ValidationErrorResponse{Success: false, Error: errs})
		return
	}

	product.UpdatedAt = h.now().UTC()
	updated, err := h.products.Update(ctx, product)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicatedValueUnique):
			h.fail(w, r, http.StatusBadRequest, msgDuplicateProduct)
		case errors.Is(err, repo.ErrProductNotFound):
			h.fail(w, r, http.StatusNotFound, msgProductNotFound)
		default:
			h.serverError(w, r, "failed to update product", err)
		}
		return
	}
	h.respond(w, r, http.StatusOK, ProductResult{Success: true, Data: updated})
}

// DeleteProductHandler godoc
// @Summary Delete a product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} DeleteResult
// @Failure 404 {object} ErrorResponse
// @Router /api/products/{id} [delete]
func (h *Handler) DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			h.fail(w, r, http.StatusNotFound, msgProductNotFound)
			return
		}
		h.serverError(w, r, "failed to delete product", err)
		return
	}
	h.respond(w, r, http.StatusOK, DeleteResult{Success: true})
}
