package cache

import "fmt"

// Key identifies a cached resource. Keys are modeled as a closed set of
// kinds with typed parameters and rendered to their string form only at the
// cache-client boundary; they are write-only identifiers, never parsed back.
type Key struct {
	kind keyKind

	// id carries the entity or user id for per-entity kinds.
	id string

	search SearchParams
}

type keyKind int

const (
	kindLatestProducts keyKind = iota
	kindCategories
	kindAllProducts
	kindProduct
	kindProductSearch
	kindOrder
	kindMyOrders
	kindAllOrders
	kindReviews
	kindAdminStats
	kindAdminPieCharts
	kindAdminBarCharts
	kindAdminLineCharts
)

// SearchParams are the filter dimensions of a paginated product search.
// Missing dimensions render as the literal "undefined", so two distinct
// filter combinations can never collide.
type SearchParams struct {
	Search   string
	Sort     string
	Category string
	Price    string
	Page     int
}

// Singleton aggregate keys.

func LatestProductsKey() Key  { return Key{kind: kindLatestProducts} }
func CategoriesKey() Key      { return Key{kind: kindCategories} }
func AllProductsKey() Key     { return Key{kind: kindAllProducts} }
func AllOrdersKey() Key       { return Key{kind: kindAllOrders} }
func AdminStatsKey() Key      { return Key{kind: kindAdminStats} }
func AdminPieChartsKey() Key  { return Key{kind: kindAdminPieCharts} }
func AdminBarChartsKey() Key  { return Key{kind: kindAdminBarCharts} }
func AdminLineChartsKey() Key { return Key{kind: kindAdminLineCharts} }

// Per-entity and per-user keys.

func ProductKey(productID string) Key { return Key{kind: kindProduct, id: productID} }
func OrderKey(orderID string) Key     { return Key{kind: kindOrder, id: orderID} }
func MyOrdersKey(userID string) Key   { return Key{kind: kindMyOrders, id: userID} }
func ReviewsKey(productID string) Key { return Key{kind: kindReviews, id: productID} }

// ProductSearchKey builds the key for one filter/page combination.
func ProductSearchKey(p SearchParams) Key {
	return Key{kind: kindProductSearch, search: p}
}

// AdminKeys returns the four admin aggregate keys.
func AdminKeys() []Key {
	return []Key{AdminStatsKey(), AdminPieChartsKey(), AdminBarChartsKey(), AdminLineChartsKey()}
}

// String renders the key to the form the cache store sees.
func (k Key) String() string {
	switch k.kind {
	case kindLatestProducts:
		return "latest-products"
	case kindCategories:
		return "categories"
	case kindAllProducts:
		return "all-products"
	case kindProduct:
		return "product-" + orUndefined(k.id)
	case kindProductSearch:
		return fmt.Sprintf("products-%s-%s-%s-%s-%d",
			orUndefined(k.search.Search),
			orUndefined(k.search.Sort),
			orUndefined(k.search.Category),
			orUndefined(k.search.Price),
			k.search.Page)
	case kindOrder:
		return "order-" + orUndefined(k.id)
	case kindMyOrders:
		return "my-orders-" + orUndefined(k.id)
	case kindAllOrders:
		return "all-orders"
	case kindReviews:
		return "reviews-" + orUndefined(k.id)
	case kindAdminStats:
		return "admin-stats"
	case kindAdminPieCharts:
		return "admin-pie-charts"
	case kindAdminBarCharts:
		return "admin-bar-charts"
	case kindAdminLineCharts:
		return "admin-line-charts"
	default:
		return "unknown"
	}
}

// orUndefined matches the source convention: an absent segment serializes as
// the literal "undefined", producing harmless no-op deletions.
func orUndefined(s string) string {
	if s == "" {
		return "undefined"
	}
	return s
}

func renderKeys(keys []Key) []string {
	rendered := make([]string, len(keys))
	for i, k := range keys {
		rendered[i] = k.String()
	}
	return rendered
}
