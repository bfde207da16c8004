// Package router wires handlers, the access gate and the shared middleware
// onto the Echo instance. Routes are grouped by audience: public reads, auth
// endpoints, authenticated user endpoints, and admin endpoints.
package router

import (
	"github.com/labstack/echo/v4"

	"storefront/internal/handler"
)

// Handlers carries everything the router needs to register.
type Handlers struct {
	Auth      *handler.AuthHandler
	Catalog   *handler.CatalogHandler
	Cart      *handler.CartHandler
	Orders    *handler.OrderHandler
	Customers *handler.CustomerHandler
	Reviews   *handler.ReviewHandler
}

// Middleware carries the prebuilt middleware instances. Gate authenticates,
// Admin authorizes on top of it, Cache and RateLimit may be pass-throughs
// when Redis is unavailable.
type Middleware struct {
	Gate      echo.MiddlewareFunc
	Admin     echo.MiddlewareFunc
	Cache     echo.MiddlewareFunc
	RateLimit echo.MiddlewareFunc
}

// Register mounts every route on e.
func Register(e *echo.Echo, h Handlers, mw Middleware) {
	e.GET("/healthz", handler.Health)

	// Auth. Register and login are rate limited; the rest require a session.
	auth := e.Group("/auth")
	auth.POST("/register", h.Auth.Register, mw.RateLimit)
	auth.POST("/login", h.Auth.Login, mw.RateLimit)
	auth.POST("/change-password", h.Auth.ChangePassword, mw.Gate)
	auth.GET("/profile", h.Auth.Profile, mw.Gate)
	auth.PUT("/profile", h.Auth.UpdateProfile, mw.Gate)

	// Public catalog reads, served through the response cache.
	e.GET("/products", h.Catalog.ListProducts, mw.Cache)
	e.GET("/products/featured", h.Catalog.ListFeaturedProducts, mw.Cache)
	e.GET("/products/:id", h.Catalog.GetProduct, mw.Cache)
	e.GET("/categories", h.Catalog.ListCategories, mw.Cache)
	e.GET("/categories/:id/products", h.Catalog.ListProductsByCategory, mw.Cache)
	e.GET("/products/:id/reviews", h.Reviews.List, mw.Cache)

	// Catalog writes. Admin only.
	e.POST("/products", h.Catalog.CreateProduct, mw.Gate, mw.Admin)
	e.PUT("/products/:id", h.Catalog.UpdateProduct, mw.Gate, mw.Admin)
	e.DELETE("/products/:id", h.Catalog.DeleteProduct, mw.Gate, mw.Admin)
	e.POST("/categories", h.Catalog.CreateCategory, mw.Gate, mw.Admin)
	e.PUT("/categories/:id", h.Catalog.UpdateCategory, mw.Gate, mw.Admin)
	e.DELETE("/categories/:id", h.Catalog.DeleteCategory, mw.Gate, mw.Admin)

	// Cart and orders. Any authenticated user.
	cart := e.Group("/cart", mw.Gate)
	cart.GET("", h.Cart.List)
	cart.POST("", h.Cart.Add)
	cart.PUT("/:id", h.Cart.UpdateQuantity)
	cart.DELETE("/:id", h.Cart.Remove)
	cart.DELETE("", h.Cart.Clear)

	orders := e.Group("/orders", mw.Gate)
	orders.GET("", h.Orders.ListMine)
	orders.POST("", h.Orders.Place)
	orders.GET("/:id", h.Orders.Get)

	e.POST("/products/:id/reviews", h.Reviews.Create, mw.Gate)

	// Admin moderation.
	admin := e.Group("/admin", mw.Gate, mw.Admin)
	admin.POST("/users/:id/reset-password", h.Auth.ResetPassword)
	admin.GET("/orders", h.Orders.ListAll)
	admin.PUT("/orders/:id/status", h.Orders.UpdateStatus)

	customers := e.Group("/customers", mw.Gate, mw.Admin)
	customers.GET("", h.Customers.List)
	customers.PATCH("/:id/status", h.Customers.UpdateStatus)
}
