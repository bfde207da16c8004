package repository

import (
	"context"
	"database/sql"

	"storefront/internal/model"
)

// CategoryRepo persists catalog categories.
type CategoryRepo struct{ DB *sql.DB }

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{DB: db} }

// List returns all categories sorted by name.
func (r *CategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,slug FROM categories ORDER BY name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Category, 0)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Get fetches a single category by id.
func (r *CategoryRepo) Get(ctx context.Context, id uint64) (model.Category, error) {
	var c model.Category
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,slug FROM categories WHERE id=? LIMIT 1", id).
		Scan(&c.ID, &c.Name, &c.Slug)
	if err == sql.ErrNoRows {
		return c, ErrNotFound
	}
	return c, err
}

// Create inserts a category and returns it with its assigned id.
func (r *CategoryRepo) Create(ctx context.Context, c model.Category) (model.Category, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO categories (name, slug) VALUES (?,?)", c.Name, c.Slug)
	if err != nil {
		return model.Category{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Category{}, err
	}
	c.ID = uint64(id)
	return c, nil
}

// Update overwrites a category's fields.
func (r *CategoryRepo) Update(ctx context.Context, c model.Category) (model.Category, error) {
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE categories SET name=?, slug=? WHERE id=?", c.Name, c.Slug, c.ID); err != nil {
		return model.Category{}, err
	}
	return r.Get(ctx, c.ID)
}

// Delete removes a category; ErrNotFound when no row matched.
func (r *CategoryRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM categories WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
