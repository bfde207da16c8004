// Package handler implements the HTTP route logic. Handlers depend on small
// store interfaces declared next to them; the repository types satisfy those
// interfaces in production and tests substitute in-memory fakes.
package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// dbTimeout bounds every store call made from a handler so a hung database
// cannot pin a request forever.
const dbTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// paramID parses a numeric path parameter; 0 is never a valid id.
func paramID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id != 0
}
