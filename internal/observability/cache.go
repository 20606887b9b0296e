package observability

import (
	"context"
	"time"

	"swiftcart-backend/internal/cache"
)

// InstrumentedCache decorates a cache with hit and miss counters.
type InstrumentedCache struct {
	inner     cache.Cache
	collector *Collector
}

// InstrumentCache wraps a cache so lookups feed the collector.
func InstrumentCache(inner cache.Cache, collector *Collector) *InstrumentedCache {
	return &InstrumentedCache{inner: inner, collector: collector}
}

func (c *InstrumentedCache) Get(ctx context.Context, key cache.Key) ([]byte, bool, error) {
	value, ok, err := c.inner.Get(ctx, key)
	if err == nil {
		if ok {
			c.collector.CacheHits.Inc()
		} else {
			c.collector.CacheMisses.Inc()
		}
	}
	return value, ok, err
}

func (c *InstrumentedCache) Set(ctx context.Context, key cache.Key, value []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, key, value, ttl)
}

func (c *InstrumentedCache) Delete(ctx context.Context, keys ...cache.Key) error {
	return c.inner.Delete(ctx, keys...)
}
