package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"storefront/internal/model"
	"storefront/internal/repository"
)

// ProductStore is the slice of the product repository the catalog needs.
type ProductStore interface {
	List(ctx context.Context) ([]model.Product, error)
	ListFeatured(ctx context.Context) ([]model.Product, error)
	ListByCategory(ctx context.Context, categoryID uint64) ([]model.Product, error)
	Get(ctx context.Context, id uint64) (model.Product, error)
	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) (model.Product, error)
	Delete(ctx context.Context, id uint64) error
}

// CategoryStore is the slice of the category repository the catalog needs.
type CategoryStore interface {
	List(ctx context.Context) ([]model.Category, error)
	Get(ctx context.Context, id uint64) (model.Category, error)
	Create(ctx context.Context, cat model.Category) (model.Category, error)
	Update(ctx context.Context, cat model.Category) (model.Category, error)
	Delete(ctx context.Context, id uint64) error
}

// CatalogHandler serves the public product/category reads and the admin-only
// writes.
type CatalogHandler struct {
	Products   ProductStore
	Categories CategoryStore
}

func NewCatalogHandler(products ProductStore, categories CategoryStore) *CatalogHandler {
	return &CatalogHandler{Products: products, Categories: categories}
}

type productReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PriceCents  *uint32 `json:"price_cents"`
	Image       *string `json:"image"`
	CategoryID  *uint64 `json:"category_id"`
	IsFeatured  *bool   `json:"is_featured"`
}

// apply copies the non-nil request fields onto p.
func (r productReq) apply(p *model.Product) {
	if r.Name != nil {
		p.Name = strings.TrimSpace(*r.Name)
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.PriceCents != nil {
		p.PriceCents = *r.PriceCents
	}
	if r.Image != nil {
		p.Image = *r.Image
	}
	if r.CategoryID != nil {
		p.CategoryID = *r.CategoryID
	}
	if r.IsFeatured != nil {
		p.IsFeatured = *r.IsFeatured
	}
}

// ListProducts handles GET /products.
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	products, err := h.Products.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch products"})
	}
	return c.JSON(http.StatusOK, products)
}

// ListFeaturedProducts handles GET /products/featured.
func (h *CatalogHandler) ListFeaturedProducts(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	products, err := h.Products.ListFeatured(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch products"})
	}
	return c.JSON(http.StatusOK, products)
}

// ListProductsByCategory handles GET /categories/:id/products.
func (h *CatalogHandler) ListProductsByCategory(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	products, err := h.Products.ListByCategory(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch products"})
	}
	return c.JSON(http.StatusOK, products)
}

// GetProduct handles GET /products/:id.
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	p, err := h.Products.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch product"})
	}
	return c.JSON(http.StatusOK, p)
}

// CreateProduct handles POST /products. Admin only.
func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	var req productReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	var p model.Product
	req.apply(&p)
	if p.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	created, err := h.Products.Create(ctx, p)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create product"})
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateProduct handles PUT /products/:id. Fields absent from the body keep
// their stored values. Admin only.
func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	var req productReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	p, err := h.Products.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update product"})
	}
	req.apply(&p)
	if p.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	updated, err := h.Products.Update(ctx, p)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update product"})
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteProduct handles DELETE /products/:id. Admin only.
func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Products.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete product"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

type categoryReq struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// slugify builds a URL-safe slug from a category name when none is supplied.
func slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

// ListCategories handles GET /categories.
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	cats, err := h.Categories.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch categories"})
	}
	return c.JSON(http.StatusOK, cats)
}

// CreateCategory handles POST /categories. Admin only.
func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	if req.Slug == "" {
		req.Slug = slugify(req.Name)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	created, err := h.Categories.Create(ctx, model.Category{Name: req.Name, Slug: req.Slug})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create category"})
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateCategory handles PUT /categories/:id. Admin only.
func (h *CatalogHandler) UpdateCategory(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	if req.Slug == "" {
		req.Slug = slugify(req.Name)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if _, err := h.Categories.Get(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update category"})
	}
	updated, err := h.Categories.Update(ctx, model.Category{ID: id, Name: req.Name, Slug: req.Slug})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update category"})
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteCategory handles DELETE /categories/:id. Admin only.
func (h *CatalogHandler) DeleteCategory(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Categories.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete category"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
