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

// ReviewStore is the slice of the review repository the review endpoints need.
type ReviewStore interface {
	ListByProduct(ctx context.Context, productID uint64) ([]model.Review, error)
	Create(ctx context.Context, rv model.Review) (model.Review, error)
}

// ReviewHandler serves public review reads and authenticated review creation.
type ReviewHandler struct {
	Reviews  ReviewStore
	Products ProductGetter
}

func NewReviewHandler(reviews ReviewStore, products ProductGetter) *ReviewHandler {
	return &ReviewHandler{Reviews: reviews, Products: products}
}

type createReviewReq struct {
	Rating uint8  `json:"rating"`
	Body   string `json:"body"`
}

// List handles GET /products/:id/reviews.
func (h *ReviewHandler) List(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	reviews, err := h.Reviews.ListByProduct(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reviews"})
	}
	return c.JSON(http.StatusOK, reviews)
}

// Create handles POST /products/:id/reviews.
func (h *ReviewHandler) Create(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	var req createReviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Products.Get(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create review"})
	}
	created, err := h.Reviews.Create(ctx, model.Review{
		ProductID: id,
		UserID:    u.ID,
		Rating:    req.Rating,
		Body:      req.Body,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create review"})
	}
	return c.JSON(http.StatusCreated, created)
}
