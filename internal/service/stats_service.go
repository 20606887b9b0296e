package service

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"swiftcart-backend/internal/cache"
	"swiftcart-backend/internal/domain"
	"swiftcart-backend/internal/repository"
)

const latestTransactionLimit = 4

// StatsService computes the admin dashboard aggregates. Each aggregate is
// expensive (it walks every order, product and user), so the computed
// snapshot is cached wholesale and dropped on any relevant mutation.
type StatsService struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	users    repository.UserRepository
	cache    cache.Cache
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewStatsService wires a StatsService.
func NewStatsService(
	products repository.ProductRepository,
	orders repository.OrderRepository,
	users repository.UserRepository,
	c cache.Cache,
	ttl time.Duration,
	logger *zap.Logger,
) *StatsService {
	return &StatsService{
		products: products,
		orders:   orders,
		users:    users,
		cache:    c,
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

// ChangePercent is the month-over-month growth of the headline figures.
type ChangePercent struct {
	Revenue int `json:"revenue"`
	Product int `json:"product"`
	User    int `json:"user"`
	Order   int `json:"order"`
}

// Counts are the lifetime totals shown on the dashboard.
type Counts struct {
	Revenue int64 `json:"revenue"`
	Product int   `json:"product"`
	User    int   `json:"user"`
	Order   int   `json:"order"`
}

// MonthlyChart holds the per-month order count and revenue series for the
// dashboard's six month window, oldest bucket first.
type MonthlyChart struct {
	Order   []int   `json:"order"`
	Revenue []int64 `json:"revenue"`
}

// UserRatio splits the user base by gender.
type UserRatio struct {
	Male   int `json:"male"`
	Female int `json:"female"`
}

// Transaction is a condensed order row shown on the dashboard.
type Transaction struct {
	ID       string             `json:"id"`
	Discount int64              `json:"discount"`
	Amount   int64              `json:"amount"`
	Quantity int                `json:"quantity"`
	Status   domain.OrderStatus `json:"status"`
}

// DashboardStats is the admin-stats snapshot.
type DashboardStats struct {
	CategoryCount      []map[string]int `json:"categoryCount"`
	ChangePercent      ChangePercent    `json:"changePercent"`
	Count              Counts           `json:"count"`
	Chart              MonthlyChart     `json:"chart"`
	UserRatio          UserRatio        `json:"userRatio"`
	LatestTransactions []Transaction    `json:"latestTransaction"`
}

// Dashboard returns the admin-stats snapshot, computing it on a cache miss.
func (s *StatsService) Dashboard(ctx context.Context) (DashboardStats, error) {
	return cache.GetOrLoad(ctx, s.cache, cache.AdminStatsKey(), s.ttl, s.computeDashboard)
}

func (s *StatsService) computeDashboard(ctx context.Context) (DashboardStats, error) {
	products, orders, users, err := s.loadAll(ctx)
	if err != nil {
		return DashboardStats{}, err
	}

	today := s.now()
	thisMonthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	lastMonthStart := thisMonthStart.AddDate(0, -1, 0)

	var thisMonthProducts, lastMonthProducts int
	for _, p := range products {
		switch {
		case !p.CreatedAt.Before(thisMonthStart):
			thisMonthProducts++
		case !p.CreatedAt.Before(lastMonthStart):
			lastMonthProducts++
		}
	}

	var thisMonthUsers, lastMonthUsers, femaleUsers int
	for _, u := range users {
		switch {
		case !u.CreatedAt.Before(thisMonthStart):
			thisMonthUsers++
		case !u.CreatedAt.Before(lastMonthStart):
			lastMonthUsers++
		}
		if u.Gender == "female" {
			femaleUsers++
		}
	}

	var revenue, thisMonthRevenue, lastMonthRevenue int64
	var thisMonthOrders, lastMonthOrders int
	orderCounts := make([]int, 6)
	orderRevenue := make([]int64, 6)
	for _, o := range orders {
		revenue += o.Total
		switch {
		case !o.CreatedAt.Before(thisMonthStart):
			thisMonthOrders++
			thisMonthRevenue += o.Total
		case !o.CreatedAt.Before(lastMonthStart):
			lastMonthOrders++
			lastMonthRevenue += o.Total
		}
		if idx, ok := monthBucket(today, o.CreatedAt, 6); ok {
			orderCounts[idx]++
			orderRevenue[idx] += o.Total
		}
	}

	transactions := make([]Transaction, 0, latestTransactionLimit)
	for _, o := range orders {
		if len(transactions) == latestTransactionLimit {
			break
		}
		transactions = append(transactions, Transaction{
			ID:       o.ID,
			Discount: o.Discount,
			Amount:   o.Total,
			Quantity: len(o.Items),
			Status:   o.Status,
		})
	}

	return DashboardStats{
		CategoryCount: categoryShares(products),
		ChangePercent: ChangePercent{
			Revenue: percentChange(thisMonthRevenue, lastMonthRevenue),
			Product: percentChange(int64(thisMonthProducts), int64(lastMonthProducts)),
			User:    percentChange(int64(thisMonthUsers), int64(lastMonthUsers)),
			Order:   percentChange(int64(thisMonthOrders), int64(lastMonthOrders)),
		},
		Count: Counts{
			Revenue: revenue,
			Product: len(products),
			User:    len(users),
			Order:   len(orders),
		},
		Chart: MonthlyChart{
			Order:   orderCounts,
			Revenue: orderRevenue,
		},
		UserRatio: UserRatio{
			Male:   len(users) - femaleUsers,
			Female: femaleUsers,
		},
		LatestTransactions: transactions,
	}, nil
}

// OrderFulfillment counts orders by status.
type OrderFulfillment struct {
	Processing int `json:"processing"`
	Shipped    int `json:"shipped"`
	Delivered  int `json:"delivered"`
}

// StockAvailability splits the catalog into in-stock and sold-out items.
type StockAvailability struct {
	InStock    int `json:"inStock"`
	OutOfStock int `json:"outOfStock"`
}

// RevenueDistribution breaks gross income into its cost components.
// Marketing cost is modeled as a flat 30% of gross income.
type RevenueDistribution struct {
	NetMargin      int64 `json:"netMargin"`
	Discount       int64 `json:"discount"`
	ProductionCost int64 `json:"productionCost"`
	Burnt          int64 `json:"burnt"`
	MarketingCost  int64 `json:"marketingCost"`
}

// UsersAgeGroup buckets users into age bands.
type UsersAgeGroup struct {
	Teen  int `json:"teen"`
	Adult int `json:"adult"`
	Old   int `json:"old"`
}

// AdminCustomer splits the user base by role.
type AdminCustomer struct {
	Admin    int `json:"admin"`
	Customer int `json:"customer"`
}

// PieCharts is the admin-pie-charts snapshot.
type PieCharts struct {
	OrderFulfillment    OrderFulfillment    `json:"orderFulfillment"`
	ProductCategories   []map[string]int    `json:"productCategories"`
	StockAvailability   StockAvailability   `json:"stockAvailability"`
	RevenueDistribution RevenueDistribution `json:"revenueDistribution"`
	UsersAgeGroup       UsersAgeGroup       `json:"usersAgeGroup"`
	AdminCustomer       AdminCustomer       `json:"adminCustomer"`
}

// Pie returns the admin-pie-charts snapshot, computing it on a cache miss.
func (s *StatsService) Pie(ctx context.Context) (PieCharts, error) {
	return cache.GetOrLoad(ctx, s.cache, cache.AdminPieChartsKey(), s.ttl, s.computePie)
}

func (s *StatsService) computePie(ctx context.Context) (PieCharts, error) {
	products, orders, users, err := s.loadAll(ctx)
	if err != nil {
		return PieCharts{}, err
	}

	var fulfillment OrderFulfillment
	var grossIncome, discount, productionCost, burnt int64
	for _, o := range orders {
		switch o.Status {
		case domain.StatusProcessing:
			fulfillment.Processing++
		case domain.StatusShipped:
			fulfillment.Shipped++
		case domain.StatusDelivered:
			fulfillment.Delivered++
		}
		grossIncome += o.Total
		discount += o.Discount
		productionCost += o.ShippingCharges
		burnt += o.Tax
	}
	marketingCost := int64(math.Round(float64(grossIncome) * 0.3))

	var outOfStock int
	for _, p := range products {
		if p.Stock == 0 {
			outOfStock++
		}
	}

	today := s.now()
	var ages UsersAgeGroup
	var roles AdminCustomer
	for _, u := range users {
		switch age := u.AgeAt(today); {
		case age < 20:
			ages.Teen++
		case age < 40:
			ages.Adult++
		default:
			ages.Old++
		}
		if u.IsAdmin() {
			roles.Admin++
		} else {
			roles.Customer++
		}
	}

	return PieCharts{
		OrderFulfillment:  fulfillment,
		ProductCategories: categoryShares(products),
		StockAvailability: StockAvailability{
			InStock:    len(products) - outOfStock,
			OutOfStock: outOfStock,
		},
		RevenueDistribution: RevenueDistribution{
			NetMargin:      grossIncome - discount - productionCost - burnt - marketingCost,
			Discount:       discount,
			ProductionCost: productionCost,
			Burnt:          burnt,
			MarketingCost:  marketingCost,
		},
		UsersAgeGroup: ages,
		AdminCustomer: roles,
	}, nil
}

// BarCharts is the admin-bar-charts snapshot: six months of new products
// and users, twelve months of orders.
type BarCharts struct {
	Users    []int `json:"users"`
	Products []int `json:"products"`
	Orders   []int `json:"orders"`
}

// Bar returns the admin-bar-charts snapshot, computing it on a cache miss.
func (s *StatsService) Bar(ctx context.Context) (BarCharts, error) {
	return cache.GetOrLoad(ctx, s.cache, cache.AdminBarChartsKey(), s.ttl, s.computeBar)
}

func (s *StatsService) computeBar(ctx context.Context) (BarCharts, error) {
	products, orders, users, err := s.loadAll(ctx)
	if err != nil {
		return BarCharts{}, err
	}

	today := s.now()
	charts := BarCharts{
		Users:    make([]int, 6),
		Products: make([]int, 6),
		Orders:   make([]int, 12),
	}
	for _, p := range products {
		if idx, ok := monthBucket(today, p.CreatedAt, 6); ok {
			charts.Products[idx]++
		}
	}
	for _, u := range users {
		if idx, ok := monthBucket(today, u.CreatedAt, 6); ok {
			charts.Users[idx]++
		}
	}
	for _, o := range orders {
		if idx, ok := monthBucket(today, o.CreatedAt, 12); ok {
			charts.Orders[idx]++
		}
	}
	return charts, nil
}

// LineCharts is the admin-line-charts snapshot: twelve months of new users
// and products, and of order discount and revenue.
type LineCharts struct {
	Users    []int   `json:"users"`
	Products []int   `json:"products"`
	Discount []int64 `json:"discount"`
	Revenue  []int64 `json:"revenue"`
}

// Line returns the admin-line-charts snapshot, computing it on a cache miss.
func (s *StatsService) Line(ctx context.Context) (LineCharts, error) {
	return cache.GetOrLoad(ctx, s.cache, cache.AdminLineChartsKey(), s.ttl, s.computeLine)
}

func (s *StatsService) computeLine(ctx context.Context) (LineCharts, error) {
	products, orders, users, err := s.loadAll(ctx)
	if err != nil {
		return LineCharts{}, err
	}

	today := s.now()
	charts := LineCharts{
		Users:    make([]int, 12),
		Products: make([]int, 12),
		Discount: make([]int64, 12),
		Revenue:  make([]int64, 12),
	}
	for _, p := range products {
		if idx, ok := monthBucket(today, p.CreatedAt, 12); ok {
			charts.Products[idx]++
		}
	}
	for _, u := range users {
		if idx, ok := monthBucket(today, u.CreatedAt, 12); ok {
			charts.Users[idx]++
		}
	}
	for _, o := range orders {
		if idx, ok := monthBucket(today, o.CreatedAt, 12); ok {
			charts.Discount[idx] += o.Discount
			charts.Revenue[idx] += o.Total
		}
	}
	return charts, nil
}

func (s *StatsService) loadAll(ctx context.Context) ([]domain.Product, []domain.Order, []domain.User, error) {
	products, err := s.products.All(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	orders, err := s.orders.All(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	users, err := s.users.All(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return products, orders, users, nil
}

// percentChange reports this month's figure as a percentage of last
// month's. A zero baseline yields this month's figure times one hundred, so
// growth from nothing still registers.
func percentChange(thisMonth, lastMonth int64) int {
	if lastMonth == 0 {
		return int(thisMonth * 100)
	}
	return int(math.Round(float64(thisMonth) / float64(lastMonth) * 100))
}

// monthBucket maps a creation time to its slot in a length-month series
// ending at today, oldest bucket first. Times outside the window report
// false. Buckets are calendar months, so the window check guards against a
// document from a whole year back aliasing into the current month's slot.
func monthBucket(today, created time.Time, length int) (int, bool) {
	if created.Before(today.AddDate(0, -length, 0)) {
		return 0, false
	}
	monthDiff := (int(today.Month()) - int(created.Month()) + 12) % 12
	if monthDiff >= length {
		return 0, false
	}
	return length - monthDiff - 1, true
}

// categoryShares reports each category's share of the catalog as a rounded
// percentage, in category order.
func categoryShares(products []domain.Product) []map[string]int {
	counts := make(map[string]int)
	var categories []string
	for _, p := range products {
		if _, ok := counts[p.Category]; !ok {
			categories = append(categories, p.Category)
		}
		counts[p.Category]++
	}
	sort.Strings(categories)
	shares := make([]map[string]int, 0, len(categories))
	for _, category := range categories {
		share := 0
		if len(products) > 0 {
			share = int(math.Round(float64(counts[category]) / float64(len(products)) * 100))
		}
		shares = append(shares, map[string]int{category: share})
	}
	return shares
}
