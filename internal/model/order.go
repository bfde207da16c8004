package model

import "time"

// OrderStatus is the lifecycle state of an order. Transitions are restricted
// to the table below; everything else is rejected by the repository.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// transitions maps a status to the set of states it may move to. Delivered
// and cancelled are terminal.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// ParseOrderStatus validates a raw status string from a request body.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(s)
	_, ok := transitions[st]
	return st, ok
}

// CanTransitionTo reports whether moving from s to next is a legal step.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Order mirrors the `orders` table. Number carries a unique index; it is
// generated once at placement and never changes. Only Status mutates after
// creation, and only through admin-driven transitions.
type Order struct {
	ID        uint64      `json:"id"`
	UserID    uint64      `json:"user_id"`
	Number    string      `json:"order_number"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// OrderItem is a denormalized snapshot of a purchased line. Product name,
// image and price are copied at purchase time so later product edits do not
// rewrite order history.
type OrderItem struct {
	ID           uint64 `json:"id"`
	OrderID      uint64 `json:"order_id"`
	ProductID    uint64 `json:"product_id"`
	ProductName  string `json:"product_name"`
	ProductImage string `json:"product_image"`
	Quantity     uint32 `json:"quantity"`
	PriceCents   uint32 `json:"price_cents"`
}
