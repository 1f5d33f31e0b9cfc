package storage

import (
	"context"
	"errors"
)

// RouteKey is the key holding the last resolved route URL.
const RouteKey = "route"

// ErrStoreClosed is returned when operations are attempted on a closed store.
var ErrStoreClosed = errors.New("storage: store is closed")

// Store is a string key/value persistence backend.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the store.
	Close() error
}
