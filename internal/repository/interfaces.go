// Package repository defines the persistence contracts for the store's five
// collections. Implementations live in the ddb (DynamoDB) and memory
// subpackages; services depend only on these interfaces.
package repository

import (
	"context"

	"swiftcart-backend/internal/domain"
)

// ProductRepository persists catalog items.
type ProductRepository interface {
	Create(ctx context.Context, p domain.Product) error
	FindByID(ctx context.Context, id string) (domain.Product, error)
	Update(ctx context.Context, p domain.Product) error
	Delete(ctx context.Context, id string) error

	// All returns every product, newest first.
	All(ctx context.Context) ([]domain.Product, error)
	// Latest returns the newest products, capped at limit.
	Latest(ctx context.Context, limit int) ([]domain.Product, error)
	// Categories returns the distinct product categories.
	Categories(ctx context.Context) ([]string, error)
	// Find returns every product matching the filter, newest first.
	Find(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error)

	// DecrementStock atomically reduces a product's stock. It fails when the
	// product is missing or the remaining stock is insufficient.
	DecrementStock(ctx context.Context, id string, quantity int) error
	// UpdateRatingSummary atomically replaces a product's rating aggregate.
	UpdateRatingSummary(ctx context.Context, id string, s domain.RatingSummary) error
}

// OrderRepository persists placed orders.
type OrderRepository interface {
	Create(ctx context.Context, o domain.Order) error
	FindByID(ctx context.Context, id string) (domain.Order, error)
	Update(ctx context.Context, o domain.Order) error
	Delete(ctx context.Context, id string) error

	// All returns every order, newest first.
	All(ctx context.Context) ([]domain.Order, error)
	// FindByUser returns the orders owned by one user, newest first.
	FindByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

// UserRepository persists registered users.
type UserRepository interface {
	Create(ctx context.Context, u domain.User) error
	FindByID(ctx context.Context, id string) (domain.User, error)
	Delete(ctx context.Context, id string) error
	All(ctx context.Context) ([]domain.User, error)
}

// ReviewRepository persists product reviews.
type ReviewRepository interface {
	Create(ctx context.Context, r domain.Review) error
	Update(ctx context.Context, r domain.Review) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (domain.Review, error)

	// ListByProduct returns a product's reviews, most recently updated first.
	ListByProduct(ctx context.Context, productID string) ([]domain.Review, error)
	// FindByUserAndProduct returns the single review a user left on a
	// product, or a not-found error. This lookup enforces the one-review-per-
	// user-per-product rule before an insert.
	FindByUserAndProduct(ctx context.Context, userID, productID string) (domain.Review, error)
}

// CouponRepository persists discount codes.
type CouponRepository interface {
	Create(ctx context.Context, c domain.Coupon) error
	FindByID(ctx context.Context, id string) (domain.Coupon, error)
	FindByCode(ctx context.Context, code string) (domain.Coupon, error)
	Update(ctx context.Context, c domain.Coupon) error
	Delete(ctx context.Context, id string) error
	All(ctx context.Context) ([]domain.Coupon, error)
}
