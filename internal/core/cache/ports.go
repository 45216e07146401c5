package cache

import (
	"context"
)

// Store defines the key-value operations interface following hexagonal architecture.
// This is a port that can be implemented by different storage providers.
type Store interface {
	// Get retrieves a value from the store by key.
	// Returns the stored value or an error if not found or on failure.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value under the specified key. Existing values are replaced.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a value from the store by key.
	Delete(ctx context.Context, key string) error

	// Scan returns all keys matching the given glob-style pattern.
	Scan(ctx context.Context, pattern string) ([]string, error)

	// HSet writes string fields into the hash stored at key.
	// Used for denormalized fields queried by external tools.
	HSet(ctx context.Context, key string, fields map[string]string) error

	// Ping checks if the store is reachable.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	Close() error
}
