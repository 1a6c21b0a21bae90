package cachestore

import (
	"context"
	"time"
)

// Store is a byte-oriented cache keyed by strings from the cachekey package.
// Implementations must be safe for concurrent use. A Get miss is not an
// error; errors mean the backend itself failed.
type Store interface {
	// Get returns the cached value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// Close releases resources held by the store.
	Close() error
}
