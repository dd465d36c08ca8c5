package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"storefront/internal/catalog"
	"storefront/internal/forms"
	"storefront/internal/params"
)

func (app *application) adminListProductsHandler(w http.ResponseWriter, r *http.Request) {
	pagination := params.ParsePagination(r.URL.Query(), 30)

	products, total, err := app.stores.Products.ListAdmin(r.Context(), pagination.Limit, pagination.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	pagination.ComputeMeta(total)

	response := struct {
		Products   []*catalog.Product `json:"products"`
		Pagination params.Pagination  `json:"pagination"`
	}{
		Products:   products,
		Pagination: pagination,
	}

	if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createProductHandler accepts a form-encoded product submission. Variants
// are regenerated server side from the submitted options, so a tampered
// variant list cannot introduce combinations the options do not produce.
func (app *application) createProductHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("failed to parse form: %w", err))
		return
	}
	data := forms.FromURLValues(r.PostForm)

	in, verrs := catalog.DecodeProductForm(data)
	if verrs != nil {
		app.failedValidationResponse(w, r, verrs, data)
		return
	}

	product, err := app.stores.Products.Create(r.Context(), in)
	if err != nil {
		var (
			dup    *catalog.DuplicateError
			badRef *catalog.InvalidReferenceError
		)
		switch {
		case errors.As(err, &dup):
			app.conflictResponse(w, r, dup)
		case errors.As(err, &badRef):
			app.badRequestResponse(w, r, badRef)
		default:
			app.internalServerError(w, r, fmt.Errorf("create product: %w", err))
		}
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/v1/products/%s", product.Slug))
	if err := app.jsonResponse(w, http.StatusCreated, product); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) updateProductHandler(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "productID")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		app.badRequestResponse(w, r, fmt.Errorf("invalid product ID: %s", idStr))
		return
	}

	if err := r.ParseForm(); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("failed to parse form: %w", err))
		return
	}
	data := forms.FromURLValues(r.PostForm)

	in, verrs := catalog.DecodeProductForm(data)
	if verrs != nil {
		app.failedValidationResponse(w, r, verrs, data)
		return
	}

	product, err := app.stores.Products.Update(r.Context(), id, in)
	if err != nil {
		var (
			dup    *catalog.DuplicateError
			badRef *catalog.InvalidReferenceError
		)
		switch {
		case errors.As(err, &dup):
			app.conflictResponse(w, r, dup)
		case errors.Is(err, catalog.ErrNotFound):
			app.notFoundResponse(w, r, err)
		case errors.As(err, &badRef):
			app.badRequestResponse(w, r, badRef)
		default:
			app.internalServerError(w, r, fmt.Errorf("update product: %w", err))
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, product); err != nil {
		app.internalServerError(w, r, err)
	}
}
