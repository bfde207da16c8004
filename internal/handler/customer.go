package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/model"
	"storefront/internal/repository"
)

// CustomerStore is the slice of the user repository the admin customer view
// needs.
type CustomerStore interface {
	ListCustomers(ctx context.Context) ([]model.Customer, error)
	SetActive(ctx context.Context, id uint64, active bool) (model.User, error)
}

// CustomerHandler serves the admin-only customer moderation endpoints.
type CustomerHandler struct {
	Users CustomerStore
}

func NewCustomerHandler(users CustomerStore) *CustomerHandler {
	return &CustomerHandler{Users: users}
}

type customerStatusReq struct {
	IsActive *bool `json:"is_active"`
}

// List handles GET /customers: every non-admin user joined with its profile.
func (h *CustomerHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	customers, err := h.Users.ListCustomers(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch customers"})
	}
	return c.JSON(http.StatusOK, customers)
}

// UpdateStatus handles PATCH /customers/:id/status. The flag is persisted on
// the user row; a deactivated user is rejected by the auth gate on their next
// request.
func (h *CustomerHandler) UpdateStatus(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req customerStatusReq
	if err := c.Bind(&req); err != nil || req.IsActive == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "is_active required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	u, err := h.Users.SetActive(ctx, id, *req.IsActive)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update customer status"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":        u.ID,
		"email":     u.Email,
		"role":      u.Role,
		"is_active": u.IsActive,
	})
}
