package shared

import (
	"context"
	"time"
)

// DefaultIdempotencyTTL is how long a key is held when no TTL is configured
const DefaultIdempotencyTTL = 24 * time.Hour

// IdempotencyStore remembers client-supplied request keys so that a retried
// write is executed at most once within the key's TTL.
type IdempotencyStore interface {
	// Reserve claims the key for ttl.
	// Returns true if the key was newly claimed, false if it is already held.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release drops a claimed key so the request can be retried
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}
