package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// NewOrderNumber returns an order number of the form ORD-<unix millis>-<hex>.
// The timestamp keeps numbers roughly sortable; the random suffix makes
// collisions under concurrent placement practically impossible. The orders
// table still carries a unique index on the column, so an actual collision
// fails the insert instead of passing silently.
func NewOrderNumber() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("ORD-%d-%s", time.Now().UTC().UnixMilli(), hex.EncodeToString(buf)), nil
}
