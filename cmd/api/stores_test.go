package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"storefront/internal/catalog"
)

// mockCategoryStore is a mock implementation of catalog.CategoryStore.
type mockCategoryStore struct {
	mock.Mock
}

func (m *mockCategoryStore) Create(ctx context.Context, in *catalog.CategoryInput) (*catalog.Category, error) {
	args := m.Called(ctx, in)
	if c, ok := args.Get(0).(*catalog.Category); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCategoryStore) Update(ctx context.Context, id int64, in *catalog.CategoryInput) (*catalog.Category, error) {
	args := m.Called(ctx, id, in)
	if c, ok := args.Get(0).(*catalog.Category); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCategoryStore) List(ctx context.Context) ([]*catalog.Category, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]*catalog.Category); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCategoryStore) GetBySlug(ctx context.Context, slug string) (*catalog.Category, error) {
	args := m.Called(ctx, slug)
	if c, ok := args.Get(0).(*catalog.Category); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCategoryStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// mockProductStore is a mock implementation of catalog.ProductStore.
type mockProductStore struct {
	mock.Mock
}

func (m *mockProductStore) Create(ctx context.Context, in *catalog.ProductInput) (*catalog.Product, error) {
	args := m.Called(ctx, in)
	if p, ok := args.Get(0).(*catalog.Product); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductStore) Update(ctx context.Context, id int64, in *catalog.ProductInput) (*catalog.Product, error) {
	args := m.Called(ctx, id, in)
	if p, ok := args.Get(0).(*catalog.Product); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductStore) List(ctx context.Context, q catalog.ProductQuery) ([]*catalog.Product, int, error) {
	args := m.Called(ctx, q)
	if list, ok := args.Get(0).([]*catalog.Product); ok {
		return list, args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *mockProductStore) ListAdmin(ctx context.Context, limit, offset int) ([]*catalog.Product, int, error) {
	args := m.Called(ctx, limit, offset)
	if list, ok := args.Get(0).([]*catalog.Product); ok {
		return list, args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *mockProductStore) GetBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	args := m.Called(ctx, slug)
	if p, ok := args.Get(0).(*catalog.Product); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductStore) Stats(ctx context.Context) (*catalog.Stats, error) {
	args := m.Called(ctx)
	if s, ok := args.Get(0).(*catalog.Stats); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestApp(categories catalog.CategoryStore, products catalog.ProductStore) *application {
	return &application{
		logger: zap.NewNop().Sugar(),
		stores: &catalog.Stores{
			Categories: categories,
			Products:   products,
		},
	}
}

func formRequest(t *testing.T, method, target string, form url.Values) *http.Request {
	t.Helper()
	r := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// validationPayload mirrors the 422 envelope for decoding in tests.
type validationPayload struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
	Values map[string]any `json:"values"`
}
