// Package memory provides in-process implementations of the repository
// interfaces. They back the unit tests and local development; semantics
// (not-found errors, ordering, atomic stock checks) mirror the ddb package.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"swiftcart-backend/internal/domain"
	appErrors "swiftcart-backend/pkg/errors"
)

// ProductRepository is an in-memory product store.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

// NewProductRepository creates an empty in-memory product store.
func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[string]domain.Product)}
}

func (r *ProductRepository) Create(ctx context.Context, p domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return domain.Product{}, appErrors.NewNotFound("Product Not Found")
	}
	return p, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *ProductRepository) All(ctx context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	products := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		products = append(products, p)
	}
	sortProductsNewestFirst(products)
	return products, nil
}

func (r *ProductRepository) Latest(ctx context.Context, limit int) ([]domain.Product, error) {
	products, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}

func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	products, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var categories []string
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

func (r *ProductRepository) Find(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	all, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	var matched []domain.Product
	for _, p := range all {
		if f.Matches(p) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

func (r *ProductRepository) DecrementStock(ctx context.Context, id string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return appErrors.NewNotFound("Product Not Found")
	}
	if p.Stock < quantity {
		return appErrors.NewValidation("Insufficient Stock")
	}
	p.Stock -= quantity
	p.UpdatedAt = time.Now()
	r.products[id] = p
	return nil
}

func (r *ProductRepository) UpdateRatingSummary(ctx context.Context, id string, s domain.RatingSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return appErrors.NewNotFound("Product Not Found")
	}
	p.Ratings = s.Ratings
	p.NumOfReviews = s.NumOfReviews
	p.UpdatedAt = time.Now()
	r.products[id] = p
	return nil
}

func sortProductsNewestFirst(products []domain.Product) {
	sort.SliceStable(products, func(a, b int) bool {
		if products[a].CreatedAt.Equal(products[b].CreatedAt) {
			return strings.Compare(products[a].ID, products[b].ID) < 0
		}
		return products[a].CreatedAt.After(products[b].CreatedAt)
	})
}

// OrderRepository is an in-memory order store.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
}

// NewOrderRepository creates an empty in-memory order store.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[string]domain.Order)}
}

func (r *OrderRepository) Create(ctx context.Context, o domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = o
	return nil
}

func (r *OrderRepository) Update(ctx context.Context, o domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = o
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return domain.Order{}, appErrors.NewNotFound("Order Not Found")
	}
	return o, nil
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.orders, id)
	return nil
}

func (r *OrderRepository) All(ctx context.Context) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	orders := make([]domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		orders = append(orders, o)
	}
	sortOrdersNewestFirst(orders)
	return orders, nil
}

func (r *OrderRepository) FindByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	all, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	var owned []domain.Order
	for _, o := range all {
		if o.UserID == userID {
			owned = append(owned, o)
		}
	}
	return owned, nil
}

func sortOrdersNewestFirst(orders []domain.Order) {
	sort.SliceStable(orders, func(a, b int) bool {
		if orders[a].CreatedAt.Equal(orders[b].CreatedAt) {
			return strings.Compare(orders[a].ID, orders[b].ID) < 0
		}
		return orders[a].CreatedAt.After(orders[b].CreatedAt)
	})
}

// UserRepository is an in-memory user store.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// NewUserRepository creates an empty in-memory user store.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]domain.User)}
}

func (r *UserRepository) Create(ctx context.Context, u domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return domain.User{}, appErrors.NewNotFound("Invalid Id")
	}
	return u, nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *UserRepository) All(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.SliceStable(users, func(a, b int) bool {
		if users[a].CreatedAt.Equal(users[b].CreatedAt) {
			return strings.Compare(users[a].ID, users[b].ID) < 0
		}
		return users[a].CreatedAt.After(users[b].CreatedAt)
	})
	return users, nil
}

// ReviewRepository is an in-memory review store.
type ReviewRepository struct {
	mu      sync.RWMutex
	reviews map[string]domain.Review
}

// NewReviewRepository creates an empty in-memory review store.
func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{reviews: make(map[string]domain.Review)}
}

func (r *ReviewRepository) Create(ctx context.Context, rv domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reviews[rv.ID] = rv
	return nil
}

func (r *ReviewRepository) Update(ctx context.Context, rv domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reviews[rv.ID] = rv
	return nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id string) (domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rv, ok := r.reviews[id]
	if !ok {
		return domain.Review{}, appErrors.NewNotFound("Review Not Found")
	}
	return rv, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.reviews, id)
	return nil
}

func (r *ReviewRepository) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var reviews []domain.Review
	for _, rv := range r.reviews {
		if rv.ProductID == productID {
			reviews = append(reviews, rv)
		}
	}
	sort.SliceStable(reviews, func(a, b int) bool {
		if reviews[a].UpdatedAt.Equal(reviews[b].UpdatedAt) {
			return strings.Compare(reviews[a].ID, reviews[b].ID) < 0
		}
		return reviews[a].UpdatedAt.After(reviews[b].UpdatedAt)
	})
	return reviews, nil
}

func (r *ReviewRepository) FindByUserAndProduct(ctx context.Context, userID, productID string) (domain.Review, error) {
	reviews, err := r.ListByProduct(ctx, productID)
	if err != nil {
		return domain.Review{}, err
	}
	for _, rv := range reviews {
		if rv.UserID == userID {
			return rv, nil
		}
	}
	return domain.Review{}, appErrors.NewNotFound("Review Not Found")
}

// CouponRepository is an in-memory coupon store.
type CouponRepository struct {
	mu      sync.RWMutex
	coupons map[string]domain.Coupon
}

// NewCouponRepository creates an empty in-memory coupon store.
func NewCouponRepository() *CouponRepository {
	return &CouponRepository{coupons: make(map[string]domain.Coupon)}
}

func (r *CouponRepository) Create(ctx context.Context, c domain.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.coupons[c.ID] = c
	return nil
}

func (r *CouponRepository) Update(ctx context.Context, c domain.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.coupons[c.ID] = c
	return nil
}

func (r *CouponRepository) FindByID(ctx context.Context, id string) (domain.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.coupons[id]
	if !ok {
		return domain.Coupon{}, appErrors.NewNotFound("Invalid Coupon ID")
	}
	return c, nil
}

func (r *CouponRepository) FindByCode(ctx context.Context, code string) (domain.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.coupons {
		if c.Code == code {
			return c, nil
		}
	}
	return domain.Coupon{}, appErrors.NewNotFound("Invalid Coupon Code")
}

func (r *CouponRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.coupons, id)
	return nil
}

func (r *CouponRepository) All(ctx context.Context) ([]domain.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	coupons := make([]domain.Coupon, 0, len(r.coupons))
	for _, c := range r.coupons {
		coupons = append(coupons, c)
	}
	sort.SliceStable(coupons, func(a, b int) bool {
		if coupons[a].CreatedAt.Equal(coupons[b].CreatedAt) {
			return strings.Compare(coupons[a].ID, coupons[b].ID) < 0
		}
		return coupons[a].CreatedAt.After(coupons[b].CreatedAt)
	})
	return coupons, nil
}
