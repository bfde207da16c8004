package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/queue"
	"storefront/internal/repository"
	"storefront/internal/utils"
)

// OrderStore is the slice of the order repository the order endpoints need.
type OrderStore interface {
	ListAll(ctx context.Context) ([]model.Order, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Order, error)
	Get(ctx context.Context, id uint64) (model.Order, error)
	ListItems(ctx context.Context, orderID uint64) ([]model.OrderItem, error)
	PlaceOrder(ctx context.Context, userID uint64, number string, items []model.OrderItem) (model.Order, error)
	UpdateStatus(ctx context.Context, id uint64, next model.OrderStatus) (model.Order, error)
}

// OrderHandler serves order placement and the admin order views. Publish is
// optional; when set it is invoked best-effort after a successful placement
// and its error is ignored, matching the fire-and-forget event contract.
type OrderHandler struct {
	Orders  OrderStore
	Publish func(ctx context.Context, ev queue.OrderPlacedEvent) error
}

func NewOrderHandler(orders OrderStore) *OrderHandler {
	return &OrderHandler{Orders: orders}
}

type orderItemReq struct {
	ProductID    uint64 `json:"product_id"`
	ProductName  string `json:"product_name"`
	ProductImage string `json:"product_image"`
	Quantity     uint32 `json:"quantity"`
	PriceCents   uint32 `json:"price_cents"`
}
type placeOrderReq struct {
	Items []orderItemReq `json:"items"`
}
type updateStatusReq struct {
	Status string `json:"status"`
}

// ListMine handles GET /orders.
func (h *OrderHandler) ListMine(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	orders, err := h.Orders.ListByUser(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch orders"})
	}
	return c.JSON(http.StatusOK, orders)
}

// Get handles GET /orders/:id. Customers see only their own orders; admins
// see any. The response embeds the order's line items.
func (h *OrderHandler) Get(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	o, err := h.Orders.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch order"})
	}
	if o.UserID != u.ID && u.Role != model.RoleAdmin {
		// Hide other users' orders entirely rather than confirming they exist.
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	}
	items, err := h.Orders.ListItems(ctx, o.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch order"})
	}
	return c.JSON(http.StatusOK, echo.Map{"order": o, "items": items})
}

// Place handles POST /orders. The submitted line items are persisted verbatim
// as the order snapshot (no repricing, no stock check) and the user's cart is
// cleared, all in one transaction. A fresh order number is generated per
// attempt; a collision on the unique index gets one retry.
func (h *OrderHandler) Place(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req placeOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "items required"})
	}
	items := make([]model.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		if it.ProductID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id required on every item"})
		}
		if it.Quantity < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be at least 1"})
		}
		items = append(items, model.OrderItem{
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			ProductImage: it.ProductImage,
			Quantity:     it.Quantity,
			PriceCents:   it.PriceCents,
		})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	var order model.Order
	for attempt := 0; attempt < 2; attempt++ {
		number, err := utils.NewOrderNumber()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create order"})
		}
		order, err = h.Orders.PlaceOrder(ctx, u.ID, number, items)
		if errors.Is(err, repository.ErrOrderNumberTaken) {
			continue
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create order"})
		}
		h.publishPlaced(order, items)
		return c.JSON(http.StatusCreated, order)
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create order"})
}

func (h *OrderHandler) publishPlaced(o model.Order, items []model.OrderItem) {
	if h.Publish == nil {
		return
	}
	var total uint64
	for _, it := range items {
		total += uint64(it.PriceCents) * uint64(it.Quantity)
	}
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()
	_ = h.Publish(ctx, queue.OrderPlacedEvent{
		OrderID:     o.ID,
		OrderNumber: o.Number,
		UserID:      o.UserID,
		ItemCount:   len(items),
		TotalCents:  total,
		PlacedAt:    time.Now().UTC().Format(time.RFC3339),
	})
}

// ListAll handles GET /admin/orders.
func (h *OrderHandler) ListAll(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	orders, err := h.Orders.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch orders"})
	}
	return c.JSON(http.StatusOK, orders)
}

// UpdateStatus handles PUT /admin/orders/:id/status. Only transitions allowed
// by the status state machine pass; everything else is a 400.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status, ok := model.ParseOrderStatus(req.Status)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	o, err := h.Orders.UpdateStatus(ctx, id, status)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		case errors.Is(err, repository.ErrIllegalTransition):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "illegal status transition"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update order status"})
		}
	}
	return c.JSON(http.StatusOK, o)
}
