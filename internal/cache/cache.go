// Package cache implements the read-through caching scheme layered over the
// store: a typed key convention, a cache client abstraction, generic
// read-through accessors, and the invalidation dispatcher that mutation
// handlers call after every write.
package cache

import (
	"context"
	"time"
)

// SearchTTL bounds the paginated product search cache family. Its key space
// is unbounded (one key per distinct filter/page combination) and is never
// invalidated, so the short expiry is the only staleness bound.
const SearchTTL = 30 * time.Second

// Cache is the key/value store the scheme runs against. Values are
// JSON-serialized domain objects.
type Cache interface {
	// Get returns the value stored under key, with found=false on a miss.
	Get(ctx context.Context, key Key) ([]byte, bool, error)

	// Set stores value under key with the given expiry.
	Set(ctx context.Context, key Key, value []byte, ttl time.Duration) error

	// Delete removes the given keys. Deleting an absent key is a no-op.
	Delete(ctx context.Context, keys ...Key) error
}
