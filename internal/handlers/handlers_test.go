package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"swiftcart-backend/internal/cache"
	"swiftcart-backend/internal/config"
	"swiftcart-backend/internal/domain"
	"swiftcart-backend/internal/handlers"
	"swiftcart-backend/internal/observability"
	"swiftcart-backend/internal/payment"
	"swiftcart-backend/internal/repository/memory"
	"swiftcart-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeGateway struct {
	lastAmount   int64
	lastCurrency string
}

func (g *fakeGateway) CreateIntent(_ context.Context, amount int64, currency string) (payment.Intent, error) {
	g.lastAmount = amount
	g.lastCurrency = currency
	return payment.Intent{ID: "pi_test", ClientSecret: "pi_test_secret"}, nil
}

type env struct {
	router   http.Handler
	products *memory.ProductRepository
	orders   *memory.OrderRepository
	users    *memory.UserRepository
	reviews  *memory.ReviewRepository
	coupons  *memory.CouponRepository
	gateway  *fakeGateway
}

func newEnv(t *testing.T) *env {
	t.Helper()
	observability.ResetForTesting()

	logger := zap.NewNop()
	products := memory.NewProductRepository()
	orders := memory.NewOrderRepository()
	users := memory.NewUserRepository()
	reviews := memory.NewReviewRepository()
	coupons := memory.NewCouponRepository()

	c := cache.NewMemory()
	dispatcher := cache.NewDispatcher(c, logger)
	collector := observability.NewCollector("swiftcart_test")
	ttl := time.Hour

	productSvc := service.NewProductService(products, reviews, users, c, dispatcher, ttl, 8, 5, logger)
	reviewSvc := service.NewReviewService(reviews, products, users, c, dispatcher, ttl, logger)
	orderSvc := service.NewOrderService(orders, products, users, c, dispatcher, ttl, logger)
	userSvc := service.NewUserService(users, logger)
	couponSvc := service.NewCouponService(coupons, logger)
	statsSvc := service.NewStatsService(products, orders, users, c, ttl, logger)
	gateway := &fakeGateway{}
	paymentSvc := service.NewPaymentService(gateway, logger)

	cfg := config.Default()
	router := handlers.NewRouter(cfg, logger, collector, users, handlers.Handlers{
		Products: handlers.NewProductHandler(productSvc, reviewSvc, collector),
		Orders:   handlers.NewOrderHandler(orderSvc, collector),
		Users:    handlers.NewUserHandler(userSvc),
		Coupons:  handlers.NewCouponHandler(couponSvc),
		Payments: handlers.NewPaymentHandler(paymentSvc),
		Stats:    handlers.NewStatsHandler(statsSvc),
	})

	return &env{
		router:   router,
		products: products,
		orders:   orders,
		users:    users,
		reviews:  reviews,
		coupons:  coupons,
		gateway:  gateway,
	}
}

func (e *env) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (e *env) seedAdmin(t *testing.T) domain.User {
	t.Helper()
	admin := domain.User{
		ID:     "admin-1",
		Name:   "admin",
		Email:  "admin@example.com",
		Role:   domain.RoleAdmin,
		Gender: "male",
		DOB:    time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, e.users.Create(context.Background(), admin))
	return admin
}

func (e *env) seedProduct(t *testing.T, id string, price int64, stock int) domain.Product {
	t.Helper()
	p := domain.Product{
		ID:       id,
		Name:     "product " + id,
		Category: "electronics",
		Price:    price,
		Stock:    stock,
		Photos:   []domain.Photo{{PublicID: id + "-photo", URL: "https://img.example.com/" + id}},
	}
	require.NoError(t, e.products.Create(context.Background(), p))
	return p
}

func TestRootEndpoint(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "API Working with /api/v1", body["message"])
}

func TestUnknownRoute(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodGet, "/api/v1/nope", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
}

func TestCreateProduct(t *testing.T) {
	e := newEnv(t)
	admin := e.seedAdmin(t)

	rec := e.do(t, http.MethodPost, "/api/v1/product/new?id="+admin.ID, map[string]any{
		"name":        "Mechanical Keyboard",
		"description": "Clicky",
		"category":    "Electronics",
		"price":       4500,
		"stock":       10,
		"photos":      []map[string]string{{"public_id": "kb-1", "url": "https://img.example.com/kb-1"}},
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Product Created Successfully", body["message"])

	all, err := e.products.All(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "electronics", all[0].Category)
}

func TestCreateProductRequiresAdmin(t *testing.T) {
	e := newEnv(t)

	shopper := domain.User{ID: "user-1", Name: "bob", Email: "bob@example.com", Role: domain.RoleUser}
	require.NoError(t, e.users.Create(context.Background(), shopper))

	t.Run("no id", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/api/v1/product/new", map[string]any{"name": "x"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "User not login", decode(t, rec)["message"])
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/api/v1/product/new?id=ghost", map[string]any{"name": "x"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "ID not exists", decode(t, rec)["message"])
	})

	t.Run("not admin", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/api/v1/product/new?id=user-1", map[string]any{"name": "x"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Only for Admin", decode(t, rec)["message"])
	})
}

func TestGetProduct(t *testing.T) {
	e := newEnv(t)
	e.seedProduct(t, "p1", 4500, 3)

	rec := e.do(t, http.MethodGet, "/api/v1/product/p1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	product := body["product"].(map[string]any)
	assert.Equal(t, "p1", product["id"])

	rec = e.do(t, http.MethodGet, "/api/v1/product/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product Not Found", decode(t, rec)["message"])
}

func TestSearchProducts(t *testing.T) {
	e := newEnv(t)
	e.seedProduct(t, "p1", 100, 3)
	e.seedProduct(t, "p2", 300, 3)

	rec := e.do(t, http.MethodGet, "/api/v1/product/all?price=200", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	products := body["products"].([]any)
	require.Len(t, products, 1)
	assert.Equal(t, float64(1), body["totalPage"])
}

func TestPlaceOrder(t *testing.T) {
	e := newEnv(t)
	admin := e.seedAdmin(t)
	e.seedProduct(t, "p1", 100, 10)

	rec := e.do(t, http.MethodPost, "/api/v1/order/new", map[string]any{
		"user": admin.ID,
		"shippingInfo": map[string]any{
			"address": "12 High St", "city": "Pune", "state": "MH",
			"country": "India", "pinCode": 411001,
		},
		"orderItems": []map[string]any{
			{"productId": "p1", "name": "product p1", "photo": "x", "price": 100, "quantity": 2},
		},
		"subtotal": 200,
		"tax":      36,
		"total":    236,
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Order Placed Successfully", body["message"])

	p, err := e.products.FindByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 8, p.Stock)
}

func TestProcessOrderRequiresAdmin(t *testing.T) {
	e := newEnv(t)
	admin := e.seedAdmin(t)
	e.seedProduct(t, "p1", 100, 10)

	order := domain.Order{
		ID:     "o1",
		UserID: admin.ID,
		Status: domain.StatusProcessing,
		Items:  []domain.OrderItem{{ProductID: "p1", Quantity: 1, Price: 100}},
		Total:  118,
	}
	require.NoError(t, e.orders.Create(context.Background(), order))

	rec := e.do(t, http.MethodPut, "/api/v1/order/o1", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodPut, "/api/v1/order/o1?id="+admin.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Order Processed Successfully", decode(t, rec)["message"])

	updated, err := e.orders.FindByID(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, updated.Status)
}

func TestUserLifecycle(t *testing.T) {
	e := newEnv(t)
	admin := e.seedAdmin(t)

	payload := map[string]any{
		"_id":    "u1",
		"name":   "carol",
		"email":  "carol@example.com",
		"photo":  "https://img.example.com/u1",
		"gender": "female",
		"dob":    "1999-04-02T00:00:00Z",
	}

	rec := e.do(t, http.MethodPost, "/api/v1/user/new", payload)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Welcome, carol", decode(t, rec)["message"])

	// Same ID again is a welcome-back, not a conflict.
	rec = e.do(t, http.MethodPost, "/api/v1/user/new", payload)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/v1/user/all?id="+admin.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	users := decode(t, rec)["users"].([]any)
	assert.Len(t, users, 2)

	rec = e.do(t, http.MethodDelete, "/api/v1/user/u1?id="+admin.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User Deleted Successfully", decode(t, rec)["message"])
}

func TestCouponFlow(t *testing.T) {
	e := newEnv(t)
	admin := e.seedAdmin(t)

	rec := e.do(t, http.MethodPost, "/api/v1/coupon/new?id="+admin.ID, map[string]any{
		"code": "DIWALI50", "amount": 50,
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/v1/coupon/discount?coupon=DIWALI50", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(50), decode(t, rec)["discount"])

	rec = e.do(t, http.MethodGet, "/api/v1/coupon/discount?coupon=NOPE", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Invalid Coupon Code", decode(t, rec)["message"])
}

func TestPaymentCreate(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/api/v1/payment/create", map[string]any{"amount": 650})
	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "pi_test_secret", body["clientSecret"])
	assert.Equal(t, int64(65000), e.gateway.lastAmount)
	assert.Equal(t, "inr", e.gateway.lastCurrency)

	rec = e.do(t, http.MethodPost, "/api/v1/payment/create", map[string]any{"amount": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please enter amount", decode(t, rec)["message"])
}

func TestReviewEndpoints(t *testing.T) {
	e := newEnv(t)
	admin := e.seedAdmin(t)
	e.seedProduct(t, "p1", 100, 3)

	rec := e.do(t, http.MethodPost, "/api/v1/product/review/new/p1?id="+admin.ID, map[string]any{
		"rating": 5, "comment": "great",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Review Added", decode(t, rec)["message"])

	rec = e.do(t, http.MethodPost, "/api/v1/product/review/new/p1?id="+admin.ID, map[string]any{
		"rating": 3, "comment": "ok on reflection",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Review Updated", decode(t, rec)["message"])

	rec = e.do(t, http.MethodGet, "/api/v1/product/reviews/p1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	reviews := decode(t, rec)["reviews"].([]any)
	require.Len(t, reviews, 1)

	reviewID := reviews[0].(map[string]any)["id"].(string)
	rec = e.do(t, http.MethodDelete, "/api/v1/product/review/"+reviewID+"?id="+admin.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Review Deleted", decode(t, rec)["message"])
}

func TestDashboardStats(t *testing.T) {
	e := newEnv(t)
	admin := e.seedAdmin(t)
	e.seedProduct(t, "p1", 100, 3)

	rec := e.do(t, http.MethodGet, "/api/v1/dashboard/stats", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/v1/dashboard/stats?id="+admin.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	stats := body["stats"].(map[string]any)
	counts := stats["count"].(map[string]any)
	assert.Equal(t, float64(1), counts["product"])
	assert.Equal(t, float64(1), counts["user"])

	for _, path := range []string{"/api/v1/dashboard/pie", "/api/v1/dashboard/bar", "/api/v1/dashboard/line"} {
		rec = e.do(t, http.MethodGet, path+"?id="+admin.ID, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestInvalidBody(t *testing.T) {
	e := newEnv(t)
	admin := e.seedAdmin(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/product/new?id="+admin.ID, bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decode(t, rec)["message"])
}
