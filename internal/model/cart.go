package model

// CartItem mirrors the `cart_items` table. The table carries a unique key on
// (user_id, product_id) so repeated adds accumulate into one row instead of
// creating duplicates.
type CartItem struct {
	ID        uint64 `json:"id"`
	UserID    uint64 `json:"user_id"`
	ProductID uint64 `json:"product_id"`
	Quantity  uint32 `json:"quantity"`
}
