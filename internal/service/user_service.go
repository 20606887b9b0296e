package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"swiftcart-backend/internal/domain"
	"swiftcart-backend/internal/repository"
	appErrors "swiftcart-backend/pkg/errors"
	"swiftcart-backend/pkg/utils"
)

// UserService manages user records. User ids come from the external
// identity provider, so signup is idempotent on the id.
type UserService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

// NewUserService wires a UserService.
func NewUserService(users repository.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// CreateUserInput is the signup payload. The id originates from the
// identity provider.
type CreateUserInput struct {
	ID     string    `json:"_id" validate:"required"`
	Name   string    `json:"name" validate:"required"`
	Email  string    `json:"email" validate:"required,email"`
	Photo  string    `json:"photo" validate:"required"`
	Gender string    `json:"gender" validate:"required,oneof=male female"`
	DOB    time.Time `json:"dob" validate:"required"`
}

// CreateOrWelcome registers a new user, or greets an existing one when the
// id is already known. The returned flag reports whether a record was
// created.
func (s *UserService) CreateOrWelcome(ctx context.Context, in CreateUserInput) (string, bool, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return "", false, err
	}

	existing, err := s.users.FindByID(ctx, in.ID)
	if err == nil {
		return fmt.Sprintf("Welcome, %s", existing.Name), false, nil
	}
	if !appErrors.IsNotFound(err) {
		return "", false, err
	}

	now := time.Now()
	user := domain.User{
		ID:        in.ID,
		Name:      in.Name,
		Email:     in.Email,
		Photo:     in.Photo,
		Gender:    in.Gender,
		DOB:       in.DOB,
		Role:      domain.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return "", false, err
	}
	s.logger.Info("user created", zap.String("userId", user.ID))
	return fmt.Sprintf("Welcome, %s", user.Name), true, nil
}

// All returns every user, newest first.
func (s *UserService) All(ctx context.Context) ([]domain.User, error) {
	return s.users.All(ctx)
}

// Get returns a single user.
func (s *UserService) Get(ctx context.Context, id string) (domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// Delete removes a user.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}
