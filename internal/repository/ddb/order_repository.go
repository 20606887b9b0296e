package ddb

import (
	"context"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"swiftcart-backend/internal/domain"
	"swiftcart-backend/internal/repository"
	appErrors "swiftcart-backend/pkg/errors"
)

// ddbOrder is the shape of an order item in DynamoDB. GSI1 keys the order
// under its owning user so my-orders reads are a single index query.
type ddbOrder struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	GSI1PK     string `dynamodbav:"GSI1PK"`
	GSI1SK     string `dynamodbav:"GSI1SK"`

	OrderID      string              `dynamodbav:"OrderID"`
	UserID       string              `dynamodbav:"UserID"`
	ShippingInfo domain.ShippingInfo `dynamodbav:"ShippingInfo"`
	Items        []domain.OrderItem  `dynamodbav:"Items"`

	Subtotal        int64  `dynamodbav:"Subtotal"`
	Tax             int64  `dynamodbav:"Tax"`
	ShippingCharges int64  `dynamodbav:"ShippingCharges"`
	Discount        int64  `dynamodbav:"Discount"`
	Total           int64  `dynamodbav:"Total"`
	Status          string `dynamodbav:"Status"`

	CreatedAt time.Time `dynamodbav:"CreatedAt"`
	UpdatedAt time.Time `dynamodbav:"UpdatedAt"`
}

func toDDBOrder(o domain.Order) ddbOrder {
	return ddbOrder{
		PK:         pk(entityOrder, o.ID),
		SK:         skMetadata,
		EntityType: entityOrder,
		GSI1PK:     pk(entityUser, o.UserID),
		GSI1SK:     pk(entityOrder, o.CreatedAt.UTC().Format(sortTimeLayout)),

		OrderID:      o.ID,
		UserID:       o.UserID,
		ShippingInfo: o.ShippingInfo,
		Items:        o.Items,

		Subtotal:        o.Subtotal,
		Tax:             o.Tax,
		ShippingCharges: o.ShippingCharges,
		Discount:        o.Discount,
		Total:           o.Total,
		Status:          string(o.Status),

		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func (i ddbOrder) toDomain() domain.Order {
	return domain.Order{
		ID:           i.OrderID,
		UserID:       i.UserID,
		ShippingInfo: i.ShippingInfo,
		Items:        i.Items,

		Subtotal:        i.Subtotal,
		Tax:             i.Tax,
		ShippingCharges: i.ShippingCharges,
		Discount:        i.Discount,
		Total:           i.Total,
		Status:          domain.OrderStatus(i.Status),

		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

// OrderRepository is the DynamoDB-backed order store.
type OrderRepository struct {
	client *dynamodb.Client
	config Config
}

// NewOrderRepository creates an order repository over the shared table.
func NewOrderRepository(client *dynamodb.Client, cfg Config) repository.OrderRepository {
	return &OrderRepository{client: client, config: cfg}
}

func (r *OrderRepository) Create(ctx context.Context, o domain.Order) error {
	return r.put(ctx, o)
}

func (r *OrderRepository) Update(ctx context.Context, o domain.Order) error {
	return r.put(ctx, o)
}

func (r *OrderRepository) put(ctx context.Context, o domain.Order) error {
	item, err := attributevalue.MarshalMap(toDDBOrder(o))
	if err != nil {
		return appErrors.Wrap(err, "failed to marshal order item")
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.config.TableName),
		Item:      item,
	})
	if err != nil {
		return appErrors.Wrap(err, "failed to put order item")
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (domain.Order, error) {
	item, found, err := getItem(ctx, r.client, r.config.TableName, pk(entityOrder, id))
	if err != nil {
		return domain.Order{}, err
	}
	if !found {
		return domain.Order{}, appErrors.NewNotFound("Order Not Found")
	}

	var rec ddbOrder
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return domain.Order{}, appErrors.Wrap(err, "failed to unmarshal order item")
	}
	return rec.toDomain(), nil
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	return deleteItem(ctx, r.client, r.config.TableName, pk(entityOrder, id))
}

func (r *OrderRepository) All(ctx context.Context) ([]domain.Order, error) {
	items, err := scanByType(ctx, r.client, r.config.TableName, entityOrder, nil)
	if err != nil {
		return nil, err
	}
	return unmarshalOrders(items)
}

func (r *OrderRepository) FindByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	items, err := queryIndex(ctx, r.client, r.config, pk(entityUser, userID), 0)
	if err != nil {
		return nil, err
	}
	return unmarshalOrders(items)
}

func unmarshalOrders(items []map[string]types.AttributeValue) ([]domain.Order, error) {
	orders := make([]domain.Order, 0, len(items))
	for _, item := range items {
		var rec ddbOrder
		if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
			return nil, appErrors.Wrap(err, "failed to unmarshal order item")
		}
		orders = append(orders, rec.toDomain())
	}
	sort.Slice(orders, func(a, b int) bool {
		return orders[a].CreatedAt.After(orders[b].CreatedAt)
	})
	return orders, nil
}
