// Package repository implements the data access layer over MySQL. Sentinel
// errors defined here let handlers map failure kinds onto HTTP statuses
// without inspecting driver errors.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when registration hits the unique index on
// users.email.
var ErrEmailExists = errors.New("email already exists")

// ErrIllegalTransition is returned when an order status update is not an
// allowed step from the order's current status.
var ErrIllegalTransition = errors.New("illegal status transition")

// ErrOrderNumberTaken is returned when an order insert collides on the unique
// order_number index.
var ErrOrderNumberTaken = errors.New("order number already exists")

// isDuplicate reports whether err is a MySQL duplicate-key violation (1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
