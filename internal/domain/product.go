// Package domain holds the core entities of the storefront.
// Entities carry no persistence or transport concerns; repositories and
// handlers adapt them at the boundaries.
package domain

import "time"

// Photo is a reference to an externally stored product image.
type Photo struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// Product is a single catalog item.
type Product struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Price        int64   `json:"price"`
	Stock        int     `json:"stock"`
	Photos       []Photo `json:"photos"`
	Ratings      int     `json:"ratings"`
	NumOfReviews int     `json:"numOfReviews"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProductFilter describes the product search dimensions. Zero values mean
// the dimension is not filtered on.
type ProductFilter struct {
	Search   string // case-insensitive substring match on the name
	Category string
	MaxPrice int64
}

// Matches reports whether the product satisfies every set filter dimension.
func (f ProductFilter) Matches(p Product) bool {
	if f.Search != "" && !containsFold(p.Name, f.Search) {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}
	return true
}
