package model

import "time"

// Product mirrors the `products` table. Prices are stored in cents to avoid
// floating point drift.
type Product struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  uint32    `json:"price_cents"`
	Image       string    `json:"image"`
	CategoryID  uint64    `json:"category_id"`
	IsFeatured  bool      `json:"is_featured"`
	CreatedAt   time.Time `json:"created_at"`
}

// Category mirrors the `categories` table.
type Category struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Review mirrors the `reviews` table. Rating is constrained to 1..5 at the
// handler boundary, not here.
type Review struct {
	ID        uint64    `json:"id"`
	ProductID uint64    `json:"product_id"`
	UserID    uint64    `json:"user_id"`
	Rating    uint8     `json:"rating"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
