package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// CartStore is the slice of the cart repository the cart endpoints need.
type CartStore interface {
	ListByUser(ctx context.Context, userID uint64) ([]model.CartItem, error)
	Upsert(ctx context.Context, userID, productID uint64, quantity uint32) (model.CartItem, error)
	SetQuantity(ctx context.Context, userID, itemID uint64, quantity uint32) (model.CartItem, error)
	Remove(ctx context.Context, userID, itemID uint64) error
	Clear(ctx context.Context, userID uint64) (bool, error)
}

// ProductGetter validates product references on cart adds and review posts.
type ProductGetter interface {
	Get(ctx context.Context, id uint64) (model.Product, error)
}

// CartHandler serves the authenticated cart endpoints.
type CartHandler struct {
	Cart     CartStore
	Products ProductGetter
}

func NewCartHandler(cart CartStore, products ProductGetter) *CartHandler {
	return &CartHandler{Cart: cart, Products: products}
}

type addToCartReq struct {
	ProductID uint64 `json:"product_id"`
	Quantity  uint32 `json:"quantity"`
}
type setQuantityReq struct {
	Quantity uint32 `json:"quantity"`
}

// List handles GET /cart.
func (h *CartHandler) List(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.Cart.ListByUser(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch cart"})
	}
	return c.JSON(http.StatusOK, items)
}

// Add handles POST /cart. Repeated adds for the same product consolidate into
// one row with an accumulated quantity.
func (h *CartHandler) Add(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req addToCartReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ProductID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id required"})
	}
	if req.Quantity < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be at least 1"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Products.Get(ctx, req.ProductID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to add to cart"})
	}
	item, err := h.Cart.Upsert(ctx, u.ID, req.ProductID, req.Quantity)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to add to cart"})
	}
	return c.JSON(http.StatusOK, item)
}

// UpdateQuantity handles PUT /cart/:id. Unlike Add this overwrites instead of
// accumulating.
func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cart item id"})
	}
	var req setQuantityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Quantity < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be at least 1"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	item, err := h.Cart.SetQuantity(ctx, u.ID, id, req.Quantity)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cart item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update cart item"})
	}
	return c.JSON(http.StatusOK, item)
}

// Remove handles DELETE /cart/:id.
func (h *CartHandler) Remove(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cart item id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Cart.Remove(ctx, u.ID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cart item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to remove from cart"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Clear handles DELETE /cart. Success reports whether anything was removed.
func (h *CartHandler) Clear(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	removed, err := h.Cart.Clear(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to clear cart"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": removed})
}
