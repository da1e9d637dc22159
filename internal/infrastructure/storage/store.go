// internal/infrastructure/storage/store.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// Keys used by the client core
const (
	KeySession      = "session"
	KeyUser         = "user"
	KeyCart         = "cart"
	KeyOrderHistory = "orderHistory"
)

// ErrCorrupt is returned when a stored value cannot be decoded
var ErrCorrupt = errors.New("stored value is corrupt")

// Store is a durable key-value store holding JSON-serialized values.
// Each Set replaces the whole value atomically.
type Store interface {
	// Get decodes the value under key into dest and reports whether it existed
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	// Set stores value under key
	Set(ctx context.Context, key string, value interface{}) error
	// Delete removes key; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func validateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return nil
}
