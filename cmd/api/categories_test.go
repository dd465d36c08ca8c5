package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/catalog"
)

func categoryFormValues() url.Values {
	form := url.Values{}
	form.Set("name", "Apparel")
	form.Set("slug", "apparel")
	return form
}

// Re-submitting an identical name+slug pair is not idempotent: the first
// submission creates the record, the second fails with the uniqueness
// error naming the colliding field.
func TestCreateCategoryHandlerResubmitConflicts(t *testing.T) {
	categories := &mockCategoryStore{}
	categories.On("Create", mock.Anything, mock.Anything).
		Return(&catalog.Category{ID: 1, Name: "Apparel", Slug: "apparel"}, nil).Once()
	categories.On("Create", mock.Anything, mock.Anything).
		Return(nil, &catalog.DuplicateError{Entity: "category", Field: "name", Value: "Apparel"}).Once()

	app := newTestApp(categories, nil)

	w := httptest.NewRecorder()
	app.createCategoryHandler(w, formRequest(t, http.MethodPost, "/v1/admin/categories", categoryFormValues()))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/v1/categories/apparel", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	app.createCategoryHandler(w, formRequest(t, http.MethodPost, "/v1/admin/categories", categoryFormValues()))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
	assert.Contains(t, w.Body.String(), "Apparel")

	categories.AssertExpectations(t)
}

// The handler relays which field collided, so a slug conflict on update
// reads as a slug conflict to the admin form.
func TestUpdateCategoryHandlerSlugConflict(t *testing.T) {
	categories := &mockCategoryStore{}
	categories.On("Update", mock.Anything, int64(7), mock.Anything).
		Return(nil, &catalog.DuplicateError{Entity: "category", Field: "slug", Value: "apparel"})

	app := newTestApp(categories, nil)

	r := withURLParam(formRequest(t, http.MethodPut, "/v1/admin/categories/7", categoryFormValues()), "categoryID", "7")
	w := httptest.NewRecorder()
	app.updateCategoryHandler(w, r)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "slug")
	assert.Contains(t, w.Body.String(), "already exists")
}

// Updating a record that no longer exists is "not found", never a
// collision.
func TestUpdateCategoryHandlerNotFound(t *testing.T) {
	categories := &mockCategoryStore{}
	categories.On("Update", mock.Anything, int64(42), mock.Anything).
		Return(nil, catalog.ErrNotFound)

	app := newTestApp(categories, nil)

	r := withURLParam(formRequest(t, http.MethodPut, "/v1/admin/categories/42", categoryFormValues()), "categoryID", "42")
	w := httptest.NewRecorder()
	app.updateCategoryHandler(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateCategoryHandlerBadID(t *testing.T) {
	app := newTestApp(&mockCategoryStore{}, nil)

	r := withURLParam(formRequest(t, http.MethodPut, "/v1/admin/categories/abc", categoryFormValues()), "categoryID", "abc")
	w := httptest.NewRecorder()
	app.updateCategoryHandler(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// A submission violating several constraints gets all of them back in one
// 422, with the submitted values echoed for redisplay, and never reaches
// the store.
func TestCreateCategoryHandlerValidationEchoesValues(t *testing.T) {
	categories := &mockCategoryStore{}
	app := newTestApp(categories, nil)

	form := url.Values{}
	form.Set("name", "ab")
	form.Set("slug", "Bad Slug")

	w := httptest.NewRecorder()
	app.createCategoryHandler(w, formRequest(t, http.MethodPost, "/v1/admin/categories", form))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var payload validationPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.False(t, payload.Success)
	require.Len(t, payload.Errors, 2)

	fields := []string{payload.Errors[0].Field, payload.Errors[1].Field}
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "slug")

	assert.Equal(t, "ab", payload.Values["name"])
	assert.Equal(t, "Bad Slug", payload.Values["slug"])

	categories.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
