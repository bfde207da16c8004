// Package queue defines message payloads exchanged over the message broker
// and the background consumer that processes them.
package queue

// OrderPlacedEvent is published when an order is successfully placed. It
// carries enough for downstream consumers to log, notify, or feed analytics
// without querying the primary database.
type OrderPlacedEvent struct {
	OrderID     uint64 `json:"order_id"`
	OrderNumber string `json:"order_number"`
	UserID      uint64 `json:"user_id"`
	ItemCount   int    `json:"item_count"`
	TotalCents  uint64 `json:"total_cents"`
	PlacedAt    string `json:"placed_at"`
}
