package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"storefront/internal/catalog"
	"storefront/internal/forms"
)

func (app *application) listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := app.stores.Categories.List(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, categories); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getCategoryHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	category, err := app.stores.Categories.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, category); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) adminListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	// Same data as the public listing; mounted separately so it sits behind
	// admin auth with the rest of the admin surface.
	app.listCategoriesHandler(w, r)
}

// createCategoryHandler accepts a form-encoded category submission. A
// submission that violates any constraint gets every violation back in one
// response, along with the submitted values for redisplay.
func (app *application) createCategoryHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("failed to parse form: %w", err))
		return
	}
	data := forms.FromURLValues(r.PostForm)

	in, verrs := catalog.DecodeCategoryForm(data)
	if verrs != nil {
		app.failedValidationResponse(w, r, verrs, data)
		return
	}

	category, err := app.stores.Categories.Create(r.Context(), in)
	if err != nil {
		var dup *catalog.DuplicateError
		if errors.As(err, &dup) {
			app.conflictResponse(w, r, dup)
			return
		}
		app.internalServerError(w, r, fmt.Errorf("create category: %w", err))
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/v1/categories/%s", category.Slug))
	if err := app.jsonResponse(w, http.StatusCreated, category); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) updateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "categoryID")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		app.badRequestResponse(w, r, fmt.Errorf("invalid category ID: %s", idStr))
		return
	}

	if err := r.ParseForm(); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("failed to parse form: %w", err))
		return
	}
	data := forms.FromURLValues(r.PostForm)

	in, verrs := catalog.DecodeCategoryForm(data)
	if verrs != nil {
		app.failedValidationResponse(w, r, verrs, data)
		return
	}

	category, err := app.stores.Categories.Update(r.Context(), id, in)
	if err != nil {
		var dup *catalog.DuplicateError
		switch {
		case errors.As(err, &dup):
			app.conflictResponse(w, r, dup)
		case errors.Is(err, catalog.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, fmt.Errorf("update category: %w", err))
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, category); err != nil {
		app.internalServerError(w, r, err)
	}
}
