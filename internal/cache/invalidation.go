package cache

import (
	"context"

	"go.uber.org/zap"

	appErrors "swiftcart-backend/pkg/errors"
)

// Invalidation is one kind of mutation the dispatcher reacts to. The set of
// kinds is closed; each carries exactly the identifiers its key family
// needs, so a call site cannot set a flag without its ids.
type Invalidation interface {
	keys() []Key
}

// ProductsChanged invalidates the product aggregates and, for every id
// given, the individual product entry. Paginated search keys are deliberately
// not touched: their short TTL is the only staleness bound for that family.
type ProductsChanged struct {
	ProductIDs []string
}

func (p ProductsChanged) keys() []Key {
	keys := []Key{LatestProductsKey(), CategoriesKey(), AllProductsKey()}
	for _, id := range p.ProductIDs {
		keys = append(keys, ProductKey(id))
	}
	return keys
}

// OrderChanged invalidates the order aggregates, the owning user's order
// list, and the individual order entry. Absent ids render as "undefined"
// segments, which delete nothing.
type OrderChanged struct {
	OrderID string
	UserID  string
}

func (o OrderChanged) keys() []Key {
	return []Key{AllOrdersKey(), MyOrdersKey(o.UserID), OrderKey(o.OrderID)}
}

// ReviewsChanged invalidates the review list of a single product.
type ReviewsChanged struct {
	ProductID string
}

func (r ReviewsChanged) keys() []Key {
	return []Key{ReviewsKey(r.ProductID)}
}

// AdminStale invalidates all four admin aggregate snapshots wholesale.
type AdminStale struct{}

func (AdminStale) keys() []Key {
	return AdminKeys()
}

// Dispatcher deletes the cache keys affected by a mutation. Mutation
// handlers call it after the store write has completed; a subsequent read
// misses and repopulates from post-mutation data.
type Dispatcher struct {
	cache  Cache
	logger *zap.Logger
}

// NewDispatcher creates an invalidation dispatcher over the given cache.
func NewDispatcher(c Cache, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{cache: c, logger: logger}
}

// Invalidate deletes every key named by the given invalidations in one call.
// The key set is deterministic for a given input and the operation is
// idempotent: deleting absent keys is a no-op.
func (d *Dispatcher) Invalidate(ctx context.Context, invalidations ...Invalidation) error {
	seen := make(map[string]struct{})
	var keys []Key
	for _, inv := range invalidations {
		for _, k := range inv.keys() {
			rendered := k.String()
			if _, ok := seen[rendered]; ok {
				continue
			}
			seen[rendered] = struct{}{}
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil
	}

	if err := d.cache.Delete(ctx, keys...); err != nil {
		return appErrors.Wrap(err, "cache invalidation failed")
	}
	d.logger.Debug("cache invalidated", zap.Strings("keys", renderKeys(keys)))
	return nil
}
