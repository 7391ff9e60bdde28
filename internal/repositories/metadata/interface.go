package metadata

import (
	"context"
)

// Repository is a small key/value store for per-user bookkeeping records:
// the key verifier and the encrypted settings blob live here.
type Repository interface {
	// Get returns the value for key, or nil if the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set upserts a value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a key.
	Delete(ctx context.Context, key string) error

	// Clear removes every key.
	Clear(ctx context.Context) error
}
