package ddb

import (
	"context"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"swiftcart-backend/internal/domain"
	"swiftcart-backend/internal/repository"
	appErrors "swiftcart-backend/pkg/errors"
)

// ddbReview is the shape of a review item in DynamoDB. GSI1 keys the review
// under its product so per-product listings are a single index query.
type ddbReview struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	GSI1PK     string `dynamodbav:"GSI1PK"`
	GSI1SK     string `dynamodbav:"GSI1SK"`

	ReviewID  string `dynamodbav:"ReviewID"`
	UserID    string `dynamodbav:"UserID"`
	ProductID string `dynamodbav:"ProductID"`
	Rating    int    `dynamodbav:"Rating"`
	Comment   string `dynamodbav:"Comment"`

	CreatedAt time.Time `dynamodbav:"CreatedAt"`
	UpdatedAt time.Time `dynamodbav:"UpdatedAt"`
}

func toDDBReview(rv domain.Review) ddbReview {
	return ddbReview{
		PK:         pk(entityReview, rv.ID),
		SK:         skMetadata,
		EntityType: entityReview,
		GSI1PK:     pk(entityProduct, rv.ProductID),
		GSI1SK:     pk(entityReview, rv.UpdatedAt.UTC().Format(sortTimeLayout)),

		ReviewID:  rv.ID,
		UserID:    rv.UserID,
		ProductID: rv.ProductID,
		Rating:    rv.Rating,
		Comment:   rv.Comment,

		CreatedAt: rv.CreatedAt,
		UpdatedAt: rv.UpdatedAt,
	}
}

func (i ddbReview) toDomain() domain.Review {
	return domain.Review{
		ID:        i.ReviewID,
		UserID:    i.UserID,
		ProductID: i.ProductID,
		Rating:    i.Rating,
		Comment:   i.Comment,

		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

// ReviewRepository is the DynamoDB-backed review store.
type ReviewRepository struct {
	client *dynamodb.Client
	config Config
}

// NewReviewRepository creates a review repository over the shared table.
func NewReviewRepository(client *dynamodb.Client, cfg Config) repository.ReviewRepository {
	return &ReviewRepository{client: client, config: cfg}
}

func (r *ReviewRepository) Create(ctx context.Context, rv domain.Review) error {
	return r.put(ctx, rv)
}

func (r *ReviewRepository) Update(ctx context.Context, rv domain.Review) error {
	return r.put(ctx, rv)
}

func (r *ReviewRepository) put(ctx context.Context, rv domain.Review) error {
	item, err := attributevalue.MarshalMap(toDDBReview(rv))
	if err != nil {
		return appErrors.Wrap(err, "failed to marshal review item")
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.config.TableName),
		Item:      item,
	})
	if err != nil {
		return appErrors.Wrap(err, "failed to put review item")
	}
	return nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id string) (domain.Review, error) {
	item, found, err := getItem(ctx, r.client, r.config.TableName, pk(entityReview, id))
	if err != nil {
		return domain.Review{}, err
	}
	if !found {
		return domain.Review{}, appErrors.NewNotFound("Review Not Found")
	}

	var rec ddbReview
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return domain.Review{}, appErrors.Wrap(err, "failed to unmarshal review item")
	}
	return rec.toDomain(), nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	return deleteItem(ctx, r.client, r.config.TableName, pk(entityReview, id))
}

func (r *ReviewRepository) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	items, err := queryIndex(ctx, r.client, r.config, pk(entityProduct, productID), 0)
	if err != nil {
		return nil, err
	}

	reviews := make([]domain.Review, 0, len(items))
	for _, item := range items {
		var rec ddbReview
		if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
			return nil, appErrors.Wrap(err, "failed to unmarshal review item")
		}
		reviews = append(reviews, rec.toDomain())
	}
	sort.Slice(reviews, func(a, b int) bool {
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
