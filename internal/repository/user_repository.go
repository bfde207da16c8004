package repository

import (
	"context"
	"database/sql"
	"strings"

	"storefront/internal/model"
)

// UserRepo persists users and their 1:1 profiles.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id,email,password_hash,role,is_active,created_at,updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return u, ErrNotFound
	}
	return u, err
}

// CreateWithProfile inserts a user and its profile in one transaction, so a
// registration either produces both rows or neither. The unique index on
// users.email turns duplicate registrations into ErrEmailExists.
func (r *UserRepo) CreateWithProfile(ctx context.Context, email, passwordHash, role string, p model.Profile) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.User{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role, is_active) VALUES (?,?,?,1)",
		email, passwordHash, role)
	if err != nil {
		if isDuplicate(err) {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO profiles (user_id, first_name, last_name, phone) VALUES (?,?,?,?)",
		id, p.FirstName, p.LastName, p.Phone); err != nil {
		return model.User{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.User{}, err
	}
	committed = true
	return r.GetByID(ctx, uint64(id))
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}

// UpdatePassword overwrites the stored bcrypt hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=? WHERE id=?", passwordHash, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish "no such user" from "hash unchanged".
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// SetActive flips the customer-status flag on a user.
func (r *UserRepo) SetActive(ctx context.Context, id uint64, active bool) (model.User, error) {
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_active=? WHERE id=?", active, id); err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, id)
}

// GetProfile fetches the profile belonging to a user.
func (r *UserRepo) GetProfile(ctx context.Context, userID uint64) (model.Profile, error) {
	var p model.Profile
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id,first_name,last_name,phone FROM profiles WHERE user_id=? LIMIT 1",
		userID).Scan(&p.UserID, &p.FirstName, &p.LastName, &p.Phone)
	if err == sql.ErrNoRows {
		return p, ErrNotFound
	}
	return p, err
}

// UpdateProfile overwrites the mutable profile fields.
func (r *UserRepo) UpdateProfile(ctx context.Context, p model.Profile) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE profiles SET first_name=?, last_name=?, phone=? WHERE user_id=?",
		p.FirstName, p.LastName, p.Phone, p.UserID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetProfile(ctx, p.UserID); err != nil {
			return err
		}
	}
	return nil
}

// ListCustomers returns every non-admin user joined with its profile,
// newest first.
func (r *UserRepo) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT u.id, u.email, u.role, u.is_active, u.created_at,
		       COALESCE(p.first_name,''), COALESCE(p.last_name,''), COALESCE(p.phone,'')
		FROM users u
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE u.role = ?
		ORDER BY u.created_at DESC`, model.RoleUser)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Customer, 0)
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.Email, &c.Role, &c.IsActive, &c.CreatedAt,
			&c.FirstName, &c.LastName, &c.Phone); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
