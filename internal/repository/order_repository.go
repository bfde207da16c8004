package repository

import (
	"context"
	"database/sql"

	"storefront/internal/model"
)

// OrderRepo persists orders and their denormalized line items.
type OrderRepo struct{ DB *sql.DB }

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{DB: db} }

const orderCols = "id,user_id,order_number,status,created_at,updated_at"

func scanOrders(rows *sql.Rows) ([]model.Order, error) {
	defer rows.Close()
	out := make([]model.Order, 0)
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Number, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ListAll returns every order, newest first. Admin view.
func (r *OrderRepo) ListAll(ctx context.Context) ([]model.Order, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+orderCols+" FROM orders ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	return scanOrders(rows)
}

// ListByUser returns the orders of one user, newest first.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Order, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+orderCols+" FROM orders WHERE user_id=? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	return scanOrders(rows)
}

// Get fetches one order by id.
func (r *OrderRepo) Get(ctx context.Context, id uint64) (model.Order, error) {
	var o model.Order
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+orderCols+" FROM orders WHERE id=? LIMIT 1", id).
		Scan(&o.ID, &o.UserID, &o.Number, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err == sql.ErrNoRows {
		return o, ErrNotFound
	}
	return o, err
}

// ListItems returns the line items of an order.
func (r *OrderRepo) ListItems(ctx context.Context, orderID uint64) ([]model.OrderItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,order_id,product_id,product_name,product_image,quantity,price_cents FROM order_items WHERE order_id=?",
		orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.OrderItem, 0)
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName,
			&it.ProductImage, &it.Quantity, &it.PriceCents); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// PlaceOrder creates the order row, its line items and clears the user's cart
// inside a single transaction: either the whole placement lands or none of it
// does. Line items are written verbatim from the request snapshot. A
// collision on the unique order_number index surfaces as ErrOrderNumberTaken.
func (r *OrderRepo) PlaceOrder(ctx context.Context, userID uint64, number string, items []model.OrderItem) (model.Order, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Order{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO orders (user_id, order_number, status) VALUES (?,?,?)",
		userID, number, model.StatusPending)
	if err != nil {
		if isDuplicate(err) {
			return model.Order{}, ErrOrderNumberTaken
		}
		return model.Order{}, err
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return model.Order{}, err
	}
	for _, it := range items {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO order_items (order_id, product_id, product_name, product_image, quantity, price_cents) VALUES (?,?,?,?,?,?)",
			orderID, it.ProductID, it.ProductName, it.ProductImage, it.Quantity, it.PriceCents); err != nil {
			return model.Order{}, err
		}
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM cart_items WHERE user_id=?", userID); err != nil {
		return model.Order{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Order{}, err
	}
	committed = true
	return r.Get(ctx, uint64(orderID))
}

// UpdateStatus moves an order to a new status if the step is legal per the
// model transition table. The read and the conditional write share a
// transaction so two concurrent updates cannot both pass the check.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id uint64, next model.OrderStatus) (model.Order, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Order{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var current model.OrderStatus
	err = tx.QueryRowContext(ctx,
		"SELECT status FROM orders WHERE id=? FOR UPDATE", id).Scan(&current)
	if err == sql.ErrNoRows {
		return model.Order{}, ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	if !current.CanTransitionTo(next) {
		return model.Order{}, ErrIllegalTransition
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE orders SET status=? WHERE id=?", next, id); err != nil {
		return model.Order{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Order{}, err
	}
	committed = true
	return r.Get(ctx, id)
}
