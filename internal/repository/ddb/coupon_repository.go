package ddb

import (
	"context"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"swiftcart-backend/internal/domain"
	"swiftcart-backend/internal/repository"
	appErrors "swiftcart-backend/pkg/errors"
)

type ddbCoupon struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`

	CouponID string `dynamodbav:"CouponID"`
	Code     string `dynamodbav:"Code"`
	Amount   int64  `dynamodbav:"Amount"`

	CreatedAt time.Time `dynamodbav:"CreatedAt"`
	UpdatedAt time.Time `dynamodbav:"UpdatedAt"`
}

func toDDBCoupon(c domain.Coupon) ddbCoupon {
	return ddbCoupon{
		PK:         pk(entityCoupon, c.ID),
		SK:         skMetadata,
		EntityType: entityCoupon,

		CouponID: c.ID,
		Code:     c.Code,
		Amount:   c.Amount,

		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (i ddbCoupon) toDomain() domain.Coupon {
	return domain.Coupon{
		ID:     i.CouponID,
		Code:   i.Code,
		Amount: i.Amount,

		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

// CouponRepository is the DynamoDB-backed coupon store.
type CouponRepository struct {
	client *dynamodb.Client
	config Config
}

// NewCouponRepository creates a coupon repository over the shared table.
func NewCouponRepository(client *dynamodb.Client, cfg Config) repository.CouponRepository {
	return &CouponRepository{client: client, config: cfg}
}

func (r *CouponRepository) Create(ctx context.Context, c domain.Coupon) error {
	return r.put(ctx, c)
}

func (r *CouponRepository) Update(ctx context.Context, c domain.Coupon) error {
	return r.put(ctx, c)
}

func (r *CouponRepository) put(ctx context.Context, c domain.Coupon) error {
	item, err := attributevalue.MarshalMap(toDDBCoupon(c))
	if err != nil {
		return appErrors.Wrap(err, "failed to marshal coupon item")
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.config.TableName),
		Item:      item,
	})
	if err != nil {
		return appErrors.Wrap(err, "failed to put coupon item")
	}
	return nil
}

func (r *CouponRepository) FindByID(ctx context.Context, id string) (domain.Coupon, error) {
	item, found, err := getItem(ctx, r.client, r.config.TableName, pk(entityCoupon, id))
	if err != nil {
		return domain.Coupon{}, err
	}
	if !found {
		return domain.Coupon{}, appErrors.NewNotFound("Invalid Coupon ID")
	}

	var rec ddbCoupon
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return domain.Coupon{}, appErrors.Wrap(err, "failed to unmarshal coupon item")
	}
	return rec.toDomain(), nil
}

func (r *CouponRepository) FindByCode(ctx context.Context, code string) (domain.Coupon, error) {
	cond := expression.Name("Code").Equal(expression.Value(code))
	items, err := scanByType(ctx, r.client, r.config.TableName, entityCoupon, &cond)
	if err != nil {
		return domain.Coupon{}, err
	}
	if len(items) == 0 {
		return domain.Coupon{}, appErrors.NewNotFound("Invalid Coupon Code")
	}

	var rec ddbCoupon
	if err := attributevalue.UnmarshalMap(items[0], &rec); err != nil {
		return domain.Coupon{}, appErrors.Wrap(err, "failed to unmarshal coupon item")
	}
	return rec.toDomain(), nil
}

func (r *CouponRepository) Delete(ctx context.Context, id string) error {
	return deleteItem(ctx, r.client, r.config.TableName, pk(entityCoupon, id))
}

func (r *CouponRepository) All(ctx context.Context) ([]domain.Coupon, error) {
	items, err := scanByType(ctx, r.client, r.config.TableName, entityCoupon, nil)
	if err != nil {
		return nil, err
	}

	coupons := make([]domain.Coupon, 0, len(items))
	for _, item := range items {
		var rec ddbCoupon
		if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
			return nil, appErrors.Wrap(err, "failed to unmarshal coupon item")
		}
		coupons = append(coupons, rec.toDomain())
	}
	sort.Slice(coupons, func(a, b int) bool {
		return coupons[a].CreatedAt.After(coupons[b].CreatedAt)
	})
	return coupons, nil
}
