package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"swiftcart-backend/internal/cache"
	"swiftcart-backend/internal/domain"
	"swiftcart-backend/internal/repository/memory"
	appErrors "swiftcart-backend/pkg/errors"
)

type fixture struct {
	products *memory.ProductRepository
	orders   *memory.OrderRepository
	users    *memory.UserRepository
	reviews  *memory.ReviewRepository
	coupons  *memory.CouponRepository
	cache    *cache.MemoryCache

	productSvc *ProductService
	orderSvc   *OrderService
	userSvc    *UserService
	reviewSvc  *ReviewService
	couponSvc  *CouponService
	statsSvc   *StatsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()

	f := &fixture{
		products: memory.NewProductRepository(),
		orders:   memory.NewOrderRepository(),
		users:    memory.NewUserRepository(),
		reviews:  memory.NewReviewRepository(),
		coupons:  memory.NewCouponRepository(),
		cache:    cache.NewMemory(),
	}
	dispatcher := cache.NewDispatcher(f.cache, logger)
	ttl := time.Hour

	f.productSvc = NewProductService(f.products, f.reviews, f.users, f.cache, dispatcher, ttl, 8, 5, logger)
	f.orderSvc = NewOrderService(f.orders, f.products, f.users, f.cache, dispatcher, ttl, logger)
	f.userSvc = NewUserService(f.users, logger)
	f.reviewSvc = NewReviewService(f.reviews, f.products, f.users, f.cache, dispatcher, ttl, logger)
	f.couponSvc = NewCouponService(f.coupons, logger)
	f.statsSvc = NewStatsService(f.products, f.orders, f.users, f.cache, ttl, logger)
	return f
}

func (f *fixture) seedProduct(t *testing.T, name, category string, price int64, stock int, createdAt time.Time) domain.Product {
	t.Helper()
	p := domain.Product{
		ID:        "prod-" + name,
		Name:      name,
		Category:  category,
		Price:     price,
		Stock:     stock,
		Photos:    []domain.Photo{{PublicID: "ph", URL: "https://img.example.com/ph"}},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

func (f *fixture) seedUser(t *testing.T, id, name string, role domain.Role) domain.User {
	t.Helper()
	u := domain.User{
		ID:        id,
		Name:      name,
		Email:     name + "@example.com",
		Photo:     "https://img.example.com/" + id,
		Gender:    "male",
		Role:      role,
		DOB:       time.Date(1994, 5, 12, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Now(),
	}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func TestProductReadThrough(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "keyboard", "electronics", 4500, 10, time.Now())

	got, err := f.productSvc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	// Served from the cache now: a direct store write is not visible.
	p.Price = 9999
	require.NoError(t, f.products.Update(ctx, p))
	got, err = f.productSvc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4500), got.Price)
}

func TestProductUpdateInvalidatesCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "keyboard", "electronics", 4500, 10, time.Now())

	// Populate the per-product and aggregate caches.
	_, err := f.productSvc.Get(ctx, p.ID)
	require.NoError(t, err)
	_, err = f.productSvc.Latest(ctx)
	require.NoError(t, err)

	newPrice := int64(5200)
	_, err = f.productSvc.Update(ctx, p.ID, UpdateProductInput{Price: &newPrice})
	require.NoError(t, err)

	got, err := f.productSvc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, newPrice, got.Price)

	latest, err := f.productSvc.Latest(ctx)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, newPrice, latest[0].Price)
}

func TestProductGetNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.productSvc.Get(context.Background(), "missing")
	assert.True(t, appErrors.IsNotFound(err))
}

func TestProductCreateRejectsTooManyPhotos(t *testing.T) {
	f := newFixture(t)
	photos := make([]domain.Photo, 6)
	for i := range photos {
		photos[i] = domain.Photo{PublicID: "p", URL: "https://img.example.com/p"}
	}
	_, err := f.productSvc.Create(context.Background(), CreateProductInput{
		Name:        "camera",
		Description: "mirrorless",
		Category:    "Electronics",
		Price:       120000,
		Stock:       3,
		Photos:      photos,
	})
	assert.True(t, appErrors.IsValidation(err))
}

func TestProductCreateLowercasesCategory(t *testing.T) {
	f := newFixture(t)
	p, err := f.productSvc.Create(context.Background(), CreateProductInput{
		Name:        "camera",
		Description: "mirrorless",
		Category:    "Electronics",
		Price:       120000,
		Stock:       3,
		Photos:      []domain.Photo{{PublicID: "p", URL: "https://img.example.com/p"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "electronics", p.Category)
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)
	f.seedProduct(t, "usb cable", "electronics", 300, 50, base)
	f.seedProduct(t, "hdmi cable", "electronics", 700, 20, base.Add(time.Minute))
	f.seedProduct(t, "novel", "books", 500, 5, base.Add(2*time.Minute))

	t.Run("filters by search term and price", func(t *testing.T) {
		res, err := f.productSvc.Search(ctx, SearchQuery{Search: "cable", Price: "500"})
		require.NoError(t, err)
		require.Len(t, res.Products, 1)
		assert.Equal(t, "usb cable", res.Products[0].Name)
		assert.Equal(t, 1, res.TotalPage)
	})

	t.Run("sorts by price ascending", func(t *testing.T) {
		res, err := f.productSvc.Search(ctx, SearchQuery{Sort: "asc"})
		require.NoError(t, err)
		require.Len(t, res.Products, 3)
		assert.Equal(t, int64(300), res.Products[0].Price)
		assert.Equal(t, int64(700), res.Products[2].Price)
	})

	t.Run("pages beyond the end are empty", func(t *testing.T) {
		res, err := f.productSvc.Search(ctx, SearchQuery{Page: 4})
		require.NoError(t, err)
		assert.Empty(t, res.Products)
		assert.Equal(t, 1, res.TotalPage)
	})

	t.Run("rejects a malformed price", func(t *testing.T) {
		_, err := f.productSvc.Search(ctx, SearchQuery{Price: "cheap"})
		assert.True(t, appErrors.IsValidation(err))
	})
}

func TestSearchTotalPages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 17; i++ {
		f.seedProduct(t, "item-"+string(rune('a'+i)), "misc", int64(100+i), 1, base.Add(time.Duration(i)*time.Second))
	}

	res, err := f.productSvc.Search(ctx, SearchQuery{Page: 1})
	require.NoError(t, err)
	assert.Len(t, res.Products, 8)
	assert.Equal(t, 3, res.TotalPage)

	res, err = f.productSvc.Search(ctx, SearchQuery{Page: 3})
	require.NoError(t, err)
	assert.Len(t, res.Products, 1)
}

func TestPlaceOrderReducesStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "keyboard", "electronics", 4500, 10, time.Now())
	u := f.seedUser(t, "u1", "alice", domain.RoleUser)

	order, err := f.orderSvc.Place(ctx, PlaceOrderInput{
		UserID:       u.ID,
		ShippingInfo: domain.ShippingInfo{Address: "1 Main St", City: "Pune", State: "MH", Country: "India", PinCode: 411001},
		Items: []domain.OrderItem{
			{ProductID: p.ID, Name: p.Name, Price: p.Price, Quantity: 3},
		},
		Subtotal: 13500,
		Tax:      2430,
		Total:    15930,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, order.Status)

	got, err := f.productSvc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Stock)

	mine, err := f.orderSvc.My(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, order.ID, mine[0].ID)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "keyboard", "electronics", 4500, 2, time.Now())
	u := f.seedUser(t, "u1", "alice", domain.RoleUser)

	_, err := f.orderSvc.Place(ctx, PlaceOrderInput{
		UserID:       u.ID,
		ShippingInfo: domain.ShippingInfo{Address: "1 Main St", City: "Pune", State: "MH", Country: "India", PinCode: 411001},
		Items: []domain.OrderItem{
			{ProductID: p.ID, Name: p.Name, Price: p.Price, Quantity: 3},
		},
		Subtotal: 13500,
		Tax:      2430,
		Total:    15930,
	})
	assert.True(t, appErrors.IsValidation(err))
}

func TestProcessOrderAdvancesStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "keyboard", "electronics", 4500, 10, time.Now())
	u := f.seedUser(t, "u1", "alice", domain.RoleUser)

	order, err := f.orderSvc.Place(ctx, PlaceOrderInput{
		UserID:       u.ID,
		ShippingInfo: domain.ShippingInfo{Address: "1 Main St", City: "Pune", State: "MH", Country: "India", PinCode: 411001},
		Items:        []domain.OrderItem{{ProductID: p.ID, Name: p.Name, Price: p.Price, Quantity: 1}},
		Subtotal:     4500,
		Tax:          810,
		Total:        5310,
	})
	require.NoError(t, err)

	order, err = f.orderSvc.Process(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, order.Status)

	order, err = f.orderSvc.Process(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, order.Status)

	// Delivered is terminal.
	order, err = f.orderSvc.Process(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, order.Status)

	// The cached per-order view reflects the final status.
	detail, err := f.orderSvc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, detail.Status)
	assert.Equal(t, "alice", detail.UserName)
}

func TestOrderMutationLeavesProductCacheAlone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "keyboard", "electronics", 4500, 10, time.Now())
	u := f.seedUser(t, "u1", "alice", domain.RoleUser)

	order, err := f.orderSvc.Place(ctx, PlaceOrderInput{
		UserID:       u.ID,
		ShippingInfo: domain.ShippingInfo{Address: "1 Main St", City: "Pune", State: "MH", Country: "India", PinCode: 411001},
		Items:        []domain.OrderItem{{ProductID: p.ID, Name: p.Name, Price: p.Price, Quantity: 1}},
		Subtotal:     4500,
		Tax:          810,
		Total:        5310,
	})
	require.NoError(t, err)

	// Warm the product cache, then mutate only the order.
	cached, err := f.productSvc.Get(ctx, p.ID)
	require.NoError(t, err)

	_, err = f.orderSvc.Process(ctx, order.ID)
	require.NoError(t, err)

	again, err := f.productSvc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, cached.ID, again.ID)
	assert.Equal(t, cached.Price, again.Price)
	assert.Equal(t, cached.Stock, again.Stock)
}

func TestReviewUpsert(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "keyboard", "electronics", 4500, 10, time.Now())
	u := f.seedUser(t, "u1", "alice", domain.RoleUser)

	updated, err := f.reviewSvc.Submit(ctx, u.ID, p.ID, SubmitReviewInput{Rating: 4, Comment: "solid"})
	require.NoError(t, err)
	assert.False(t, updated)

	updated, err = f.reviewSvc.Submit(ctx, u.ID, p.ID, SubmitReviewInput{Rating: 2, Comment: "keys wore out"})
	require.NoError(t, err)
	assert.True(t, updated)

	reviews, err := f.reviewSvc.ListByProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, 2, reviews[0].Rating)
	assert.Equal(t, "keys wore out", reviews[0].Comment)
	assert.Equal(t, "alice", reviews[0].User.Name)

	got, err := f.productSvc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Ratings)
	assert.Equal(t, 1, got.NumOfReviews)
}

func TestRatingIsFlooredMean(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "keyboard", "electronics", 4500, 10, time.Now())
	alice := f.seedUser(t, "u1", "alice", domain.RoleUser)
	bob := f.seedUser(t, "u2", "bob", domain.RoleUser)

	_, err := f.reviewSvc.Submit(ctx, alice.ID, p.ID, SubmitReviewInput{Rating: 5})
	require.NoError(t, err)
	_, err = f.reviewSvc.Submit(ctx, bob.ID, p.ID, SubmitReviewInput{Rating: 4})
	require.NoError(t, err)

	got, err := f.productSvc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Ratings) // floor((5+4)/2)
	assert.Equal(t, 2, got.NumOfReviews)
}

func TestDeleteReviewRequiresAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "keyboard", "electronics", 4500, 10, time.Now())
	alice := f.seedUser(t, "u1", "alice", domain.RoleUser)
	bob := f.seedUser(t, "u2", "bob", domain.RoleUser)

	_, err := f.reviewSvc.Submit(ctx, alice.ID, p.ID, SubmitReviewInput{Rating: 5})
	require.NoError(t, err)
	reviews, err := f.reviews.ListByProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)

	err = f.reviewSvc.Delete(ctx, bob.ID, reviews[0].ID)
	assert.True(t, appErrors.IsUnauthorized(err))

	require.NoError(t, f.reviewSvc.Delete(ctx, alice.ID, reviews[0].ID))

	got, err := f.productSvc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Ratings)
	assert.Equal(t, 0, got.NumOfReviews)
}

func TestUserCreateOrWelcome(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := CreateUserInput{
		ID:     "u1",
		Name:   "alice",
		Email:  "alice@example.com",
		Photo:  "https://img.example.com/u1",
		Gender: "female",
		DOB:    time.Date(1996, 3, 2, 0, 0, 0, 0, time.UTC),
	}

	msg, created, err := f.userSvc.CreateOrWelcome(ctx, in)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Welcome, alice", msg)

	msg, created, err = f.userSvc.CreateOrWelcome(ctx, in)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Welcome, alice", msg)

	users, err := f.userSvc.All(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, domain.RoleUser, users[0].Role)
}

func TestCouponLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	coupon, err := f.couponSvc.Create(ctx, CreateCouponInput{Code: "WELCOME10", Amount: 1000})
	require.NoError(t, err)

	_, err = f.couponSvc.Create(ctx, CreateCouponInput{Code: "WELCOME10", Amount: 500})
	assert.True(t, appErrors.IsConflict(err))

	amount, err := f.couponSvc.ApplyDiscount(ctx, "WELCOME10")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), amount)

	_, err = f.couponSvc.ApplyDiscount(ctx, "NOPE")
	assert.True(t, appErrors.IsNotFound(err))

	updated, err := f.couponSvc.Update(ctx, coupon.ID, UpdateCouponInput{Amount: 1500})
	require.NoError(t, err)
	assert.Equal(t, int64(1500), updated.Amount)
	assert.Equal(t, "WELCOME10", updated.Code)

	deleted, err := f.couponSvc.Delete(ctx, coupon.ID)
	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", deleted.Code)

	_, err = f.couponSvc.Get(ctx, coupon.ID)
	assert.True(t, appErrors.IsNotFound(err))
}
