package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/model"
)

func TestPublicCatalogReads(t *testing.T) {
	e, s := newTestEnv(t)
	cat, err := categoryStore{s}.Create(context.Background(), model.Category{Name: "Footwear", Slug: "footwear"})
	require.NoError(t, err)
	plain := seedProduct(s, "Sandal", 2500)
	featured := seedProduct(s, "Sneaker", 7500)
	featured.IsFeatured = true
	featured.CategoryID = cat.ID
	s.products[featured.ID] = featured

	// No token needed for any of these.
	rec := doJSON(e, http.MethodGet, "/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]model.Product](t, rec), 2)

	rec = doJSON(e, http.MethodGet, "/products/featured", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[[]model.Product](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, "Sneaker", got[0].Name)

	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/categories/%d/products", cat.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got = decodeBody[[]model.Product](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, featured.ID, got[0].ID)

	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/products/%d", plain.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Sandal", decodeBody[model.Product](t, rec).Name)

	rec = doJSON(e, http.MethodGet, "/products/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(e, http.MethodGet, "/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]model.Category](t, rec), 1)
}

func TestCatalogWritesAreAdminOnly(t *testing.T) {
	e, s := newTestEnv(t)
	_, userTok := seedUser(t, s, "shopper@x.com", "password1", model.RoleUser)
	body := map[string]any{"name": "Belt", "price_cents": 1500}

	rec := doJSON(e, http.MethodPost, "/products", "", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "no token")

	rec = doJSON(e, http.MethodPost, "/products", userTok, body)
	assert.Equal(t, http.StatusForbidden, rec.Code, "valid token, wrong role")
	assert.Empty(t, s.products)
}

func TestProductCRUD(t *testing.T) {
	e, s := newTestEnv(t)
	_, adminTok := seedUser(t, s, "merch@x.com", "password1", model.RoleAdmin)

	rec := doJSON(e, http.MethodPost, "/products", adminTok, map[string]any{
		"name": "Belt", "description": "leather", "price_cents": 1500, "is_featured": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	p := decodeBody[model.Product](t, rec)
	assert.NotZero(t, p.ID)
	assert.Equal(t, uint32(1500), p.PriceCents)
	assert.True(t, p.IsFeatured)

	rec = doJSON(e, http.MethodPost, "/products", adminTok, map[string]any{"price_cents": 100})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "name required")

	// Partial update: only the sent field changes.
	path := fmt.Sprintf("/products/%d", p.ID)
	rec = doJSON(e, http.MethodPut, path, adminTok, map[string]any{"price_cents": 1200})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody[model.Product](t, rec)
	assert.Equal(t, uint32(1200), updated.PriceCents)
	assert.Equal(t, "Belt", updated.Name)
	assert.Equal(t, "leather", updated.Description)

	rec = doJSON(e, http.MethodPut, "/products/9999", adminTok, map[string]any{"price_cents": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(e, http.MethodDelete, path, adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(e, http.MethodDelete, path, adminTok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "second delete finds nothing")
}

func TestCategoryCRUD(t *testing.T) {
	e, s := newTestEnv(t)
	_, adminTok := seedUser(t, s, "merch2@x.com", "password1", model.RoleAdmin)

	// Slug is derived from the name when absent.
	rec := doJSON(e, http.MethodPost, "/categories", adminTok, map[string]any{"name": "Home & Garden"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	cat := decodeBody[model.Category](t, rec)
	assert.Equal(t, "home--garden", cat.Slug)

	rec = doJSON(e, http.MethodPost, "/categories", adminTok, map[string]any{"slug": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "name required")

	path := fmt.Sprintf("/categories/%d", cat.ID)
	rec = doJSON(e, http.MethodPut, path, adminTok, map[string]any{"name": "Garden", "slug": "garden"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "garden", decodeBody[model.Category](t, rec).Slug)

	rec = doJSON(e, http.MethodPut, "/categories/9999", adminTok, map[string]any{"name": "X"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(e, http.MethodDelete, path, adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, s.categories)
}
