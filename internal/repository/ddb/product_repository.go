package ddb

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"swiftcart-backend/internal/domain"
	"swiftcart-backend/internal/repository"
	appErrors "swiftcart-backend/pkg/errors"
)

// ddbProduct is the shape of a product item in DynamoDB. SearchName holds
// the lower-cased name so substring search filters can match
// case-insensitively. GSI1 keys the whole catalog by creation time so the
// latest-products read is a bounded query instead of a table scan.
type ddbProduct struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	GSI1PK     string `dynamodbav:"GSI1PK"`
	GSI1SK     string `dynamodbav:"GSI1SK"`

	ProductID    string         `dynamodbav:"ProductID"`
	Name         string         `dynamodbav:"Name"`
	SearchName   string         `dynamodbav:"SearchName"`
	Description  string         `dynamodbav:"Description"`
	Category     string         `dynamodbav:"Category"`
	Price        int64          `dynamodbav:"Price"`
	Stock        int            `dynamodbav:"Stock"`
	Photos       []domain.Photo `dynamodbav:"Photos"`
	Ratings      int            `dynamodbav:"Ratings"`
	NumOfReviews int            `dynamodbav:"NumOfReviews"`
	CreatedAt    time.Time      `dynamodbav:"CreatedAt"`
	UpdatedAt    time.Time      `dynamodbav:"UpdatedAt"`
}

func toDDBProduct(p domain.Product) ddbProduct {
	return ddbProduct{
		PK:         pk(entityProduct, p.ID),
		SK:         skMetadata,
		EntityType: entityProduct,
		GSI1PK:     entityProduct,
		GSI1SK:     pk(entityProduct, p.CreatedAt.UTC().Format(sortTimeLayout)),

		ProductID:    p.ID,
		Name:         p.Name,
		SearchName:   strings.ToLower(p.Name),
		Description:  p.Description,
		Category:     p.Category,
		Price:        p.Price,
		Stock:        p.Stock,
		Photos:       p.Photos,
		Ratings:      p.Ratings,
		NumOfReviews: p.NumOfReviews,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (i ddbProduct) toDomain() domain.Product {
	return domain.Product{
		ID:           i.ProductID,
		Name:         i.Name,
		Description:  i.Description,
		Category:     i.Category,
		Price:        i.Price,
		Stock:        i.Stock,
		Photos:       i.Photos,
		Ratings:      i.Ratings,
		NumOfReviews: i.NumOfReviews,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}

// ProductRepository is the DynamoDB-backed product store.
type ProductRepository struct {
	client *dynamodb.Client
	config Config
}

// NewProductRepository creates a product repository over the shared table.
func NewProductRepository(client *dynamodb.Client, cfg Config) repository.ProductRepository {
	return &ProductRepository{client: client, config: cfg}
}

func (r *ProductRepository) Create(ctx context.Context, p domain.Product) error {
	return r.put(ctx, p)
}

func (r *ProductRepository) Update(ctx context.Context, p domain.Product) error {
	return r.put(ctx, p)
}

func (r *ProductRepository) put(ctx context.Context, p domain.Product) error {
	item, err := attributevalue.MarshalMap(toDDBProduct(p))
	if err != nil {
		return appErrors.Wrap(err, "failed to marshal product item")
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.config.TableName),
		Item:      item,
	})
	if err != nil {
		return appErrors.Wrap(err, "failed to put product item")
	}
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (domain.Product, error) {
	item, found, err := getItem(ctx, r.client, r.config.TableName, pk(entityProduct, id))
	if err != nil {
		return domain.Product{}, err
	}
	if !found {
		return domain.Product{}, appErrors.NewNotFound("Product Not Found")
	}

	var rec ddbProduct
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return domain.Product{}, appErrors.Wrap(err, "failed to unmarshal product item")
	}
	return rec.toDomain(), nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	return deleteItem(ctx, r.client, r.config.TableName, pk(entityProduct, id))
}

func (r *ProductRepository) All(ctx context.Context) ([]domain.Product, error) {
	return r.scan(ctx, nil)
}

func (r *ProductRepository) Latest(ctx context.Context, limit int) ([]domain.Product, error) {
	items, err := queryIndex(ctx, r.client, r.config, entityProduct, limit)
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(items))
	for _, item := range items {
		var rec ddbProduct
		if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
			return nil, appErrors.Wrap(err, "failed to unmarshal product item")
		}
		products = append(products, rec.toDomain())
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
	var cond *expression.ConditionBuilder
	var parts []expression.ConditionBuilder
	if f.Search != "" {
		parts = append(parts, expression.Name("SearchName").Contains(strings.ToLower(f.Search)))
	}
	if f.Category != "" {
		parts = append(parts, expression.Name("Category").Equal(expression.Value(f.Category)))
	}
	if f.MaxPrice > 0 {
		parts = append(parts, expression.Name("Price").LessThanEqual(expression.Value(f.MaxPrice)))
	}
	if len(parts) > 0 {
		combined := parts[0]
		for _, p := range parts[1:] {
			combined = combined.And(p)
		}
		cond = &combined
	}
	return r.scan(ctx, cond)
}

func (r *ProductRepository) scan(ctx context.Context, extra *expression.ConditionBuilder) ([]domain.Product, error) {
	items, err := scanByType(ctx, r.client, r.config.TableName, entityProduct, extra)
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(items))
	for _, item := range items {
		var rec ddbProduct
		if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
			return nil, appErrors.Wrap(err, "failed to unmarshal product item")
		}
		products = append(products, rec.toDomain())
	}
	sort.Slice(products, func(a, b int) bool {
		return products[a].CreatedAt.After(products[b].CreatedAt)
	})
	return products, nil
}

// DecrementStock reduces the stock with a conditional update so two orders
// racing on the same product cannot oversell it.
func (r *ProductRepository) DecrementStock(ctx context.Context, id string, quantity int) error {
	update := expression.Set(
		expression.Name("Stock"),
		expression.Name("Stock").Minus(expression.Value(quantity)),
	).Set(expression.Name("UpdatedAt"), expression.Value(time.Now()))

	condition := expression.AttributeExists(expression.Name("PK")).
		And(expression.Name("Stock").GreaterThanEqual(expression.Value(quantity)))

	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(condition).Build()
	if err != nil {
		return appErrors.Wrap(err, "failed to build stock update expression")
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.config.TableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pk(entityProduct, id)},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			if _, findErr := r.FindByID(ctx, id); findErr != nil {
				return findErr
			}
			return appErrors.NewValidation("Insufficient Stock")
		}
		return appErrors.Wrap(err, "failed to decrement stock")
	}
	return nil
}

// UpdateRatingSummary replaces the rating aggregate in one store-side update
// instead of a read-modify-write in handler code.
func (r *ProductRepository) UpdateRatingSummary(ctx context.Context, id string, s domain.RatingSummary) error {
	update := expression.
		Set(expression.Name("Ratings"), expression.Value(s.Ratings)).
		Set(expression.Name("NumOfReviews"), expression.Value(s.NumOfReviews)).
		Set(expression.Name("UpdatedAt"), expression.Value(time.Now()))

	condition := expression.AttributeExists(expression.Name("PK"))

	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(condition).Build()
	if err != nil {
		return appErrors.Wrap(err, "failed to build rating update expression")
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.config.TableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pk(entityProduct, id)},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return appErrors.NewNotFound("Product Not Found")
		}
		return appErrors.Wrap(err, "failed to update rating summary")
	}
	return nil
}
