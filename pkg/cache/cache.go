package cache

import (
	"context"
	"time"
)

// Cache is a time-bounded key-value store with explicit invalidation.
// Implementations must be safe for concurrent use.
//
// The zero TTL means the entry does not expire; callers in this module always
// pass an explicit TTL so staleness budgets stay visible at the call site.
type Cache[V any] interface {
	// Get returns the cached value and true when the key is present and not
	// expired. A miss is not an error.
	Get(ctx context.Context, key string) (V, bool, error)

	// Set stores a value under the key with the given TTL, replacing any
	// previous entry.
	Set(ctx context.Context, key string, value V, ttl time.Duration) error

	// Delete removes the entry immediately. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error
}
