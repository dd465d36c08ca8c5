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

func productFormValues() url.Values {
	form := url.Values{}
	form.Set("name", "Classic Logo Tee")
	form.Set("slug", "classic-logo-tee")
	form.Set("price", "24.00")
	form.Set("stock", "120")
	form.Set("categoryIds", "1")
	return form
}

func TestCreateProductHandlerCreated(t *testing.T) {
	products := &mockProductStore{}
	products.On("Create", mock.Anything, mock.Anything).
		Return(&catalog.Product{ID: 1, Name: "Classic Logo Tee", Slug: "classic-logo-tee"}, nil)

	app := newTestApp(nil, products)

	w := httptest.NewRecorder()
	app.createProductHandler(w, formRequest(t, http.MethodPost, "/v1/admin/products", productFormValues()))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/v1/products/classic-logo-tee", w.Header().Get("Location"))
}

// Re-submitting the same product fails with the uniqueness error; the
// name collision wins the report when both fields would collide.
func TestCreateProductHandlerResubmitConflicts(t *testing.T) {
	products := &mockProductStore{}
	products.On("Create", mock.Anything, mock.Anything).
		Return(nil, &catalog.DuplicateError{Entity: "product", Field: "name", Value: "Classic Logo Tee"})

	app := newTestApp(nil, products)

	w := httptest.NewRecorder()
	app.createProductHandler(w, formRequest(t, http.MethodPost, "/v1/admin/products", productFormValues()))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "name")
	assert.Contains(t, w.Body.String(), "already exists")
}

// A product naming an unknown category is a bad request, not a server
// error.
func TestCreateProductHandlerUnknownCategory(t *testing.T) {
	products := &mockProductStore{}
	products.On("Create", mock.Anything, mock.Anything).
		Return(nil, &catalog.InvalidReferenceError{CategoryID: 99})

	app := newTestApp(nil, products)

	w := httptest.NewRecorder()
	app.createProductHandler(w, formRequest(t, http.MethodPost, "/v1/admin/products", productFormValues()))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "category with ID 99")
}

func TestUpdateProductHandlerNotFound(t *testing.T) {
	products := &mockProductStore{}
	products.On("Update", mock.Anything, int64(42), mock.Anything).
		Return(nil, catalog.ErrNotFound)

	app := newTestApp(nil, products)

	r := withURLParam(formRequest(t, http.MethodPut, "/v1/admin/products/42", productFormValues()), "productID", "42")
	w := httptest.NewRecorder()
	app.updateProductHandler(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateProductHandlerConflict(t *testing.T) {
	products := &mockProductStore{}
	products.On("Update", mock.Anything, int64(7), mock.Anything).
		Return(nil, &catalog.DuplicateError{Entity: "product", Field: "slug", Value: "classic-logo-tee"})

	app := newTestApp(nil, products)

	r := withURLParam(formRequest(t, http.MethodPut, "/v1/admin/products/7", productFormValues()), "productID", "7")
	w := httptest.NewRecorder()
	app.updateProductHandler(w, r)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "slug")
}

func TestCreateProductHandlerValidationEchoesValues(t *testing.T) {
	products := &mockProductStore{}
	app := newTestApp(nil, products)

	form := productFormValues()
	form.Set("price", "abc")

	w := httptest.NewRecorder()
	app.createProductHandler(w, formRequest(t, http.MethodPost, "/v1/admin/products", form))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var payload validationPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "price", payload.Errors[0].Field)
	assert.Equal(t, "abc", payload.Values["price"])

	products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
