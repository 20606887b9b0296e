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

type ddbUser struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`

	UserID string    `dynamodbav:"UserID"`
	Name   string    `dynamodbav:"Name"`
	Email  string    `dynamodbav:"Email"`
	Photo  string    `dynamodbav:"Photo"`
	Role   string    `dynamodbav:"Role"`
	Gender string    `dynamodbav:"Gender"`
	DOB    time.Time `dynamodbav:"DOB"`

	CreatedAt time.Time `dynamodbav:"CreatedAt"`
	UpdatedAt time.Time `dynamodbav:"UpdatedAt"`
}

func toDDBUser(u domain.User) ddbUser {
	return ddbUser{
		PK:         pk(entityUser, u.ID),
		SK:         skMetadata,
		EntityType: entityUser,

		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Photo:  u.Photo,
		Role:   string(u.Role),
		Gender: u.Gender,
		DOB:    u.DOB,

		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (i ddbUser) toDomain() domain.User {
	return domain.User{
		ID:     i.UserID,
		Name:   i.Name,
		Email:  i.Email,
		Photo:  i.Photo,
		Role:   domain.Role(i.Role),
		Gender: i.Gender,
		DOB:    i.DOB,

		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

// UserRepository is the DynamoDB-backed user store.
type UserRepository struct {
	client *dynamodb.Client
	config Config
}

// NewUserRepository creates a user repository over the shared table.
func NewUserRepository(client *dynamodb.Client, cfg Config) repository.UserRepository {
	return &UserRepository{client: client, config: cfg}
}

func (r *UserRepository) Create(ctx context.Context, u domain.User) error {
	item, err := attributevalue.MarshalMap(toDDBUser(u))
	if err != nil {
		return appErrors.Wrap(err, "failed to marshal user item")
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.config.TableName),
		Item:      item,
	})
	if err != nil {
		return appErrors.Wrap(err, "failed to put user item")
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	item, found, err := getItem(ctx, r.client, r.config.TableName, pk(entityUser, id))
	if err != nil {
		return domain.User{}, err
	}
	if !found {
		return domain.User{}, appErrors.NewNotFound("Invalid Id")
	}

	var rec ddbUser
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return domain.User{}, appErrors.Wrap(err, "failed to unmarshal user item")
	}
	return rec.toDomain(), nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return deleteItem(ctx, r.client, r.config.TableName, pk(entityUser, id))
}

func (r *UserRepository) All(ctx context.Context) ([]domain.User, error) {
	items, err := scanByType(ctx, r.client, r.config.TableName, entityUser, nil)
	if err != nil {
		return nil, err
	}

	users := make([]domain.User, 0, len(items))
	for _, item := range items {
		var rec ddbUser
		if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
			return nil, appErrors.Wrap(err, "failed to unmarshal user item")
		}
		users = append(users, rec.toDomain())
	}
	sort.Slice(users, func(a, b int) bool {
		return users[a].CreatedAt.After(users[b].CreatedAt)
	})
	return users, nil
}
