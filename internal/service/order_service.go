package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"swiftcart-backend/internal/cache"
	"swiftcart-backend/internal/domain"
	"swiftcart-backend/internal/repository"
	"swiftcart-backend/pkg/utils"
)

// OrderDetail is an order joined with its owner's name, as served to the
// admin order views.
type OrderDetail struct {
	domain.Order
	UserName string `json:"userName,omitempty"`
}

// OrderService places and manages orders. Placing an order decrements the
// stock of every line item through the store's conditional update, so two
// concurrent orders cannot oversell.
type OrderService struct {
	orders      repository.OrderRepository
	products    repository.ProductRepository
	users       repository.UserRepository
	cache       cache.Cache
	invalidator *cache.Dispatcher
	ttl         time.Duration
	logger      *zap.Logger
}

// NewOrderService wires an OrderService.
func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	users repository.UserRepository,
	c cache.Cache,
	invalidator *cache.Dispatcher,
	ttl time.Duration,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orders:      orders,
		products:    products,
		users:       users,
		cache:       c,
		invalidator: invalidator,
		ttl:         ttl,
		logger:      logger,
	}
}

// PlaceOrderInput is the payload for placing an order.
type PlaceOrderInput struct {
	UserID          string              `json:"user" validate:"required"`
	ShippingInfo    domain.ShippingInfo `json:"shippingInfo" validate:"required"`
	Items           []domain.OrderItem  `json:"orderItems" validate:"required,min=1,dive"`
	Subtotal        int64               `json:"subtotal" validate:"required,gt=0"`
	Tax             int64               `json:"tax" validate:"required,gte=0"`
	ShippingCharges int64               `json:"shippingCharges"`
	Discount        int64               `json:"discount"`
	Total           int64               `json:"total" validate:"required,gt=0"`
}

// Place creates an order and decrements stock for every line item, then
// invalidates the order, product and admin cache families.
func (s *OrderService) Place(ctx context.Context, in PlaceOrderInput) (domain.Order, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return domain.Order{}, err
	}

	now := time.Now()
	order := domain.Order{
		ID:              uuid.NewString(),
		UserID:          in.UserID,
		ShippingInfo:    in.ShippingInfo,
		Items:           in.Items,
		Subtotal:        in.Subtotal,
		Tax:             in.Tax,
		ShippingCharges: in.ShippingCharges,
		Discount:        in.Discount,
		Total:           in.Total,
		Status:          domain.StatusProcessing,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return domain.Order{}, err
	}

	for _, item := range order.Items {
		if err := s.products.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			return domain.Order{}, err
		}
	}

	if err := s.invalidator.Invalidate(ctx,
		cache.ProductsChanged{ProductIDs: order.ProductIDs()},
		cache.OrderChanged{OrderID: order.ID, UserID: order.UserID},
		cache.AdminStale{},
	); err != nil {
		return domain.Order{}, err
	}
	s.logger.Info("order placed",
		zap.String("orderId", order.ID),
		zap.String("userId", order.UserID),
		zap.Int64("total", order.Total))
	return order, nil
}

// My returns a user's orders, newest first, cached per user.
func (s *OrderService) My(ctx context.Context, userID string) ([]domain.Order, error) {
	return cache.GetOrLoad(ctx, s.cache, cache.MyOrdersKey(userID), s.ttl,
		func(ctx context.Context) ([]domain.Order, error) {
			return s.orders.FindByUser(ctx, userID)
		})
}

// All returns every order with owner names joined in, cached globally.
func (s *OrderService) All(ctx context.Context) ([]OrderDetail, error) {
	return cache.GetOrLoad(ctx, s.cache, cache.AllOrdersKey(), s.ttl,
		func(ctx context.Context) ([]OrderDetail, error) {
			orders, err := s.orders.All(ctx)
			if err != nil {
				return nil, err
			}
			return s.withUserNames(ctx, orders), nil
		})
}

// Get returns a single order with the owner's name, cached per order.
func (s *OrderService) Get(ctx context.Context, id string) (OrderDetail, error) {
	return cache.GetOrLoad(ctx, s.cache, cache.OrderKey(id), s.ttl,
		func(ctx context.Context) (OrderDetail, error) {
			order, err := s.orders.FindByID(ctx, id)
			if err != nil {
				return OrderDetail{}, err
			}
			details := s.withUserNames(ctx, []domain.Order{order})
			return details[0], nil
		})
}

// Process advances an order to its next fulfillment status. Delivered
// orders stay delivered.
func (s *OrderService) Process(ctx context.Context, id string) (domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	order.Status = order.Status.Next()
	order.UpdatedAt = time.Now()
	if err := s.orders.Update(ctx, order); err != nil {
		return domain.Order{}, err
	}

	if err := s.invalidator.Invalidate(ctx,
		cache.OrderChanged{OrderID: order.ID, UserID: order.UserID},
		cache.AdminStale{},
	); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// Delete removes an order. Stock is not restored.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}
	return s.invalidator.Invalidate(ctx,
		cache.OrderChanged{OrderID: order.ID, UserID: order.UserID},
		cache.AdminStale{},
	)
}

func (s *OrderService) withUserNames(ctx context.Context, orders []domain.Order) []OrderDetail {
	names := make(map[string]string)
	details := make([]OrderDetail, 0, len(orders))
	for _, order := range orders {
		name, ok := names[order.UserID]
		if !ok {
			if u, err := s.users.FindByID(ctx, order.UserID); err == nil {
				name = u.Name
			}
			names[order.UserID] = name
		}
		details = append(details, OrderDetail{Order: order, UserName: name})
	}
	return details
}
