package model

import "time"

// Role values stored in users.role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User mirrors the `users` table. PasswordHash is a bcrypt digest and is
// never serialized; handlers build their own response types.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email (unique, lowercased)
	PasswordHash string    // users.password_hash
	Role         string    // users.role ("user" | "admin")
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// Profile is the 1:1 extension of a User created at registration.
type Profile struct {
	UserID    uint64 // profiles.user_id
	FirstName string // profiles.first_name
	LastName  string // profiles.last_name
	Phone     string // profiles.phone
}

// Customer is the admin-facing view of a user joined with its profile.
type Customer struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}
