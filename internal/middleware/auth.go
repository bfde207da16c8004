// Package middleware contains the per-request gates that run before route
// handlers: bearer-token authentication, admin authorization, response
// caching and rate limiting.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"storefront/internal/model"
	"storefront/internal/utils"
)

// Context keys set by Authenticate and read by handlers.
const (
	ContextUser   = "user"
	ContextUserID = "user_id"
)

// UserResolver resolves a token's embedded user id to a live user record.
type UserResolver interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// Authenticate returns an Echo middleware implementing the two-stage access
// gate. A missing token is the softer failure and yields 401; a token that is
// present but fails verification yields 403, as does a token whose user no
// longer exists or has been deactivated. On success the resolved user is
// attached to the request context and nothing else is touched.
func Authenticate(secret string, users UserResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "access token required"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			userID, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid token"})
			}

			// The token may outlive the account: a deleted or deactivated
			// user keeps a structurally valid token until expiry, so the
			// lookup is what actually decides.
			u, err := users.GetByID(c.Request().Context(), userID)
			if err != nil || !u.IsActive {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid token"})
			}

			c.Set(ContextUser, u)
			c.Set(ContextUserID, u.ID)
			return next(c)
		}
	}
}

// RequireAdmin rejects any request whose authenticated user is not an admin.
// It assumes Authenticate ran earlier in the chain.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := c.Get(ContextUser).(model.User)
			if !ok || u.Role != model.RoleAdmin {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "admin access required"})
			}
			return next(c)
		}
	}
}

// CurrentUser extracts the user attached by Authenticate.
func CurrentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get(ContextUser).(model.User)
	return u, ok
}
