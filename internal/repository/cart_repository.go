package repository

import (
	"context"
	"database/sql"

	"storefront/internal/model"
)

// CartRepo persists cart items. The cart_items table carries a unique key on
// (user_id, product_id), which Upsert leans on to consolidate repeated adds
// in a single atomic statement.
type CartRepo struct{ DB *sql.DB }

func NewCartRepo(db *sql.DB) *CartRepo { return &CartRepo{DB: db} }

// ListByUser returns every cart row belonging to a user.
func (r *CartRepo) ListByUser(ctx context.Context, userID uint64) ([]model.CartItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,user_id,product_id,quantity FROM cart_items WHERE user_id=?", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.CartItem, 0)
	for rows.Next() {
		var it model.CartItem
		if err := rows.Scan(&it.ID, &it.UserID, &it.ProductID, &it.Quantity); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Upsert adds quantity to the user's row for a product, creating the row when
// absent. The increment happens inside one INSERT ... ON DUPLICATE KEY UPDATE
// so concurrent adds for the same (user, product) serialize on the row lock
// instead of racing a read-then-write.
func (r *CartRepo) Upsert(ctx context.Context, userID, productID uint64, quantity uint32) (model.CartItem, error) {
	if _, err := r.DB.ExecContext(ctx, `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES (?,?,?)
		ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)`,
		userID, productID, quantity); err != nil {
		return model.CartItem{}, err
	}
	var it model.CartItem
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,product_id,quantity FROM cart_items WHERE user_id=? AND product_id=? LIMIT 1",
		userID, productID).Scan(&it.ID, &it.UserID, &it.ProductID, &it.Quantity)
	return it, err
}

// SetQuantity overwrites the quantity of one cart row owned by the user.
func (r *CartRepo) SetQuantity(ctx context.Context, userID, itemID uint64, quantity uint32) (model.CartItem, error) {
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE cart_items SET quantity=? WHERE id=? AND user_id=?",
		quantity, itemID, userID); err != nil {
		return model.CartItem{}, err
	}
	var it model.CartItem
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,product_id,quantity FROM cart_items WHERE id=? AND user_id=? LIMIT 1",
		itemID, userID).Scan(&it.ID, &it.UserID, &it.ProductID, &it.Quantity)
	if err == sql.ErrNoRows {
		return it, ErrNotFound
	}
	return it, err
}

// Remove deletes one cart row owned by the user; ErrNotFound when absent.
func (r *CartRepo) Remove(ctx context.Context, userID, itemID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM cart_items WHERE id=? AND user_id=?", itemID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear deletes all cart rows for a user and reports whether any existed.
func (r *CartRepo) Clear(ctx context.Context, userID uint64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id=?", userID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
