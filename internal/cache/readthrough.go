package cache

import (
	"context"
	"encoding/json"
	"time"

	appErrors "swiftcart-backend/pkg/errors"
)

// GetOrLoad is the generic read-through accessor: it attempts a cache read
// and on a miss runs the store query, populates the cache with the given
// expiry, and returns the freshly computed value. Populating the cache on a
// miss is the only mutation this path performs.
//
// Cache-backend and store failures are not retried or distinguished here;
// they propagate to the request-handling layer.
func GetOrLoad[T any](ctx context.Context, c Cache, key Key, ttl time.Duration, load func(ctx context.Context) (T, error)) (T, error) {
	var result T

	cached, found, err := c.Get(ctx, key)
	if err != nil {
		return result, appErrors.Wrap(err, "cache read failed")
	}
	if found {
		if err := json.Unmarshal(cached, &result); err != nil {
			return result, appErrors.Wrap(err, "cached value corrupt")
		}
		return result, nil
	}

	result, err = load(ctx)
	if err != nil {
		return result, err
	}

	serialized, err := json.Marshal(result)
	if err != nil {
		return result, appErrors.Wrap(err, "cache value marshal failed")
	}
	if err := c.Set(ctx, key, serialized, ttl); err != nil {
		return result, appErrors.Wrap(err, "cache write failed")
	}
	return result, nil
}
