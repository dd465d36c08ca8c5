package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"storefront/internal/catalog"
	"storefront/internal/params"
)

// listProductsHandler serves the storefront grid: optional free-text
// search, category filter, sort, and 1-based paging. When the full-text
// index is missing the search falls back to substring matching and the
// response flags the results as degraded.
func (app *application) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	pagination := params.ParsePagination(qs, catalog.DefaultPageSize)

	search := strings.TrimSpace(qs.Get("q"))
	textIndex := false
	if search != "" {
		textIndex = app.stores.Indexes.TextIndexExists(r.Context())
	}

	query := catalog.ProductQuery{
		Search:       search,
		CategorySlug: strings.TrimSpace(qs.Get("category")),
		Sort:         params.ParseSort(qs),
		Page:         pagination.Page,
		PageSize:     pagination.Limit,
		TextIndex:    textIndex,
	}

	products, total, err := app.stores.Products.List(r.Context(), query)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	pagination.ComputeMeta(total)

	response := struct {
		Products       []*catalog.Product `json:"products"`
		Pagination     params.Pagination  `json:"pagination"`
		SearchDegraded bool               `json:"search_degraded"`
	}{
		Products:       products,
		Pagination:     pagination,
		SearchDegraded: search != "" && !textIndex,
	}

	if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getProductHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	product, err := app.stores.Products.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, product); err != nil {
		app.internalServerError(w, r, err)
	}
}
