package repository

import (
	"context"
	"database/sql"

	"storefront/internal/model"
)

// ReviewRepo persists product reviews.
type ReviewRepo struct{ DB *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{DB: db} }

// ListByProduct returns the reviews of one product, newest first.
func (r *ReviewRepo) ListByProduct(ctx context.Context, productID uint64) ([]model.Review, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,product_id,user_id,rating,body,created_at FROM reviews WHERE product_id=? ORDER BY created_at DESC",
		productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Review, 0)
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Rating, &rv.Body, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// Create inserts a review and returns it with its assigned id.
func (r *ReviewRepo) Create(ctx context.Context, rv model.Review) (model.Review, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO reviews (product_id, user_id, rating, body) VALUES (?,?,?,?)",
		rv.ProductID, rv.UserID, rv.Rating, rv.Body)
	if err != nil {
		return model.Review{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Review{}, err
	}
	var out model.Review
	err = r.DB.QueryRowContext(ctx,
		"SELECT id,product_id,user_id,rating,body,created_at FROM reviews WHERE id=? LIMIT 1", id).
		Scan(&out.ID, &out.ProductID, &out.UserID, &out.Rating, &out.Body, &out.CreatedAt)
	return out, err
}
