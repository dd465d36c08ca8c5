package main

import (
	"errors"
	"net/http"

	"storefront/internal/catalog"
)

func (app *application) statsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := app.stores.Products.Stats(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, stats); err != nil {
		app.internalServerError(w, r, err)
	}
}

// seedHandler loads the demo catalog. Refuses with a conflict when the
// catalog already has data; clear first to re-seed.
func (app *application) seedHandler(w http.ResponseWriter, r *http.Request) {
	categories, products, err := app.stores.Maintenance.Seed(r.Context())
	if err != nil {
		if errors.Is(err, catalog.ErrNotEmpty) {
			app.conflictResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	data := map[string]int{
		"categories": categories,
		"products":   products,
	}
	if err := app.jsonResponse(w, http.StatusCreated, data); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) clearHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.stores.Maintenance.Clear(r.Context()); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"status": "cleared"}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createIndexesHandler builds the runtime-managed indexes. Individual
// failures are logged server side and reflected in the created count
// rather than failing the request.
func (app *application) createIndexesHandler(w http.ResponseWriter, r *http.Request) {
	created := app.stores.Indexes.EnsureIndexes(r.Context())

	data := map[string]any{
		"created":     created,
		"text_search": app.stores.Indexes.TextIndexExists(r.Context()),
	}
	if err := app.jsonResponse(w, http.StatusOK, data); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) dropIndexesHandler(w http.ResponseWriter, r *http.Request) {
	dropped := app.stores.Indexes.DropIndexes(r.Context())

	data := map[string]any{
		"dropped":     dropped,
		"text_search": app.stores.Indexes.TextIndexExists(r.Context()),
	}
	if err := app.jsonResponse(w, http.StatusOK, data); err != nil {
		app.internalServerError(w, r, err)
	}
}
