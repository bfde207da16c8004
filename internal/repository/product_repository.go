package repository

import (
	"context"
	"database/sql"

	"storefront/internal/model"
)

// ProductRepo persists catalog products.
type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

const productCols = "id,name,description,price_cents,image,category_id,is_featured,created_at"

func scanProducts(rows *sql.Rows) ([]model.Product, error) {
	defer rows.Close()
	out := make([]model.Product, 0)
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents,
			&p.Image, &p.CategoryID, &p.IsFeatured, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// List returns all products, newest first.
func (r *ProductRepo) List(ctx context.Context) ([]model.Product, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+productCols+" FROM products ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

// ListFeatured returns products flagged for the storefront landing page.
func (r *ProductRepo) ListFeatured(ctx context.Context) ([]model.Product, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+productCols+" FROM products WHERE is_featured=1 ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

// ListByCategory returns all products in a category.
func (r *ProductRepo) ListByCategory(ctx context.Context, categoryID uint64) ([]model.Product, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+productCols+" FROM products WHERE category_id=? ORDER BY created_at DESC", categoryID)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

// Get fetches a single product by id.
func (r *ProductRepo) Get(ctx context.Context, id uint64) (model.Product, error) {
	var p model.Product
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+productCols+" FROM products WHERE id=? LIMIT 1", id).
		Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents,
			&p.Image, &p.CategoryID, &p.IsFeatured, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return p, ErrNotFound
	}
	return p, err
}

// Create inserts a product and returns it with its assigned id.
func (r *ProductRepo) Create(ctx context.Context, p model.Product) (model.Product, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO products (name, description, price_cents, image, category_id, is_featured) VALUES (?,?,?,?,?,?)",
		p.Name, p.Description, p.PriceCents, p.Image, p.CategoryID, p.IsFeatured)
	if err != nil {
		return model.Product{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Product{}, err
	}
	return r.Get(ctx, uint64(id))
}

// Update overwrites the mutable fields of a product.
func (r *ProductRepo) Update(ctx context.Context, p model.Product) (model.Product, error) {
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE products SET name=?, description=?, price_cents=?, image=?, category_id=?, is_featured=? WHERE id=?",
		p.Name, p.Description, p.PriceCents, p.Image, p.CategoryID, p.IsFeatured, p.ID); err != nil {
		return model.Product{}, err
	}
	// RowsAffected is 0 both for a missing row and a no-op update; the
	// re-read settles which it was.
	return r.Get(ctx, p.ID)
}

// Delete removes a product; ErrNotFound when no row matched.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM products WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
