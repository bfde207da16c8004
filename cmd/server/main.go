package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/internal/queue"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	users := repository.NewUserRepo(db)
	products := repository.NewProductRepo(db)
	categories := repository.NewCategoryRepo(db)
	cart := repository.NewCartRepo(db)
	orders := repository.NewOrderRepo(db)
	reviews := repository.NewReviewRepo(db)

	orderHandler := handler.NewOrderHandler(orders)
	orderHandler.Publish = service.PublishOrderPlaced

	h := router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, users),
		Catalog:   handler.NewCatalogHandler(products, categories),
		Cart:      handler.NewCartHandler(cart, products),
		Orders:    orderHandler,
		Customers: handler.NewCustomerHandler(users),
		Reviews:   handler.NewReviewHandler(reviews, products),
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}
	mw := router.Middleware{
		Gate:      middleware.Authenticate(cfg.JWTSecret, users),
		Admin:     middleware.RequireAdmin(),
		Cache:     middleware.ResponseCache(config.LoadCacheConfig(), rdb),
		RateLimit: middleware.RateLimit(config.LoadRateLimitConfig(), rdb),
	}

	e := echo.New()
	router.Register(e, h, mw)

	// Background consumer for order.placed events; reconnects on its own.
	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("order consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
