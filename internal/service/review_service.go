package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"swiftcart-backend/internal/cache"
	"swiftcart-backend/internal/domain"
	"swiftcart-backend/internal/repository"
	appErrors "swiftcart-backend/pkg/errors"
	"swiftcart-backend/pkg/utils"
)

// ReviewAuthor is the subset of the author shown alongside a review.
type ReviewAuthor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Photo string `json:"photo"`
}

// ReviewView is a review joined with its author, as served to clients.
type ReviewView struct {
	ID        string       `json:"id"`
	User      ReviewAuthor `json:"user"`
	ProductID string       `json:"product"`
	Rating    int          `json:"rating"`
	Comment   string       `json:"comment,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// ReviewService serves product reviews and keeps each product's rating
// aggregate in step with its review set.
type ReviewService struct {
	reviews     repository.ReviewRepository
	products    repository.ProductRepository
	users       repository.UserRepository
	cache       cache.Cache
	invalidator *cache.Dispatcher
	ttl         time.Duration
	logger      *zap.Logger
}

// NewReviewService wires a ReviewService.
func NewReviewService(
	reviews repository.ReviewRepository,
	products repository.ProductRepository,
	users repository.UserRepository,
	c cache.Cache,
	invalidator *cache.Dispatcher,
	ttl time.Duration,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:     reviews,
		products:    products,
		users:       users,
		cache:       c,
		invalidator: invalidator,
		ttl:         ttl,
		logger:      logger,
	}
}

// ListByProduct returns a product's reviews, newest first, with author
// details joined in. Cached per product.
func (s *ReviewService) ListByProduct(ctx context.Context, productID string) ([]ReviewView, error) {
	return cache.GetOrLoad(ctx, s.cache, cache.ReviewsKey(productID), s.ttl,
		func(ctx context.Context) ([]ReviewView, error) {
			reviews, err := s.reviews.ListByProduct(ctx, productID)
			if err != nil {
				return nil, err
			}
			views := make([]ReviewView, 0, len(reviews))
			for _, r := range reviews {
				view := ReviewView{
					ID:        r.ID,
					User:      ReviewAuthor{ID: r.UserID},
					ProductID: r.ProductID,
					Rating:    r.Rating,
					Comment:   r.Comment,
					CreatedAt: r.CreatedAt,
					UpdatedAt: r.UpdatedAt,
				}
				if u, err := s.users.FindByID(ctx, r.UserID); err == nil {
					view.User.Name = u.Name
					view.User.Photo = u.Photo
				}
				views = append(views, view)
			}
			return views, nil
		})
}

// SubmitReviewInput is the payload for submitting a review.
type SubmitReviewInput struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=200"`
}

// Submit records a user's review of a product. A second submission by the
// same user updates the existing review instead of adding another. The
// returned flag reports whether an existing review was updated.
func (s *ReviewService) Submit(ctx context.Context, userID, productID string, in SubmitReviewInput) (bool, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return false, err
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if appErrors.IsNotFound(err) {
			return false, appErrors.NewNotFound("Not Logged In")
		}
		return false, err
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return false, err
	}

	now := time.Now()
	updated := false

	existing, err := s.reviews.FindByUserAndProduct(ctx, userID, productID)
	switch {
	case err == nil:
		existing.Rating = in.Rating
		existing.Comment = in.Comment
		existing.UpdatedAt = now
		if err := s.reviews.Update(ctx, existing); err != nil {
			return false, err
		}
		updated = true
	case appErrors.IsNotFound(err):
		review := domain.Review{
			ID:        uuid.NewString(),
			UserID:    userID,
			ProductID: productID,
			Rating:    in.Rating,
			Comment:   in.Comment,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.reviews.Create(ctx, review); err != nil {
			return false, err
		}
	default:
		return false, err
	}

	if err := s.refreshRatingSummary(ctx, productID); err != nil {
		return updated, err
	}
	return updated, s.invalidator.Invalidate(ctx,
		cache.ReviewsChanged{ProductID: productID},
		cache.ProductsChanged{ProductIDs: []string{productID}},
		cache.AdminStale{},
	)
}

// Delete removes a review. Only the review's author may delete it.
func (s *ReviewService) Delete(ctx context.Context, userID, reviewID string) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if appErrors.IsNotFound(err) {
			return appErrors.NewNotFound("Not Logged In")
		}
		return err
	}
	review, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != userID {
		return appErrors.NewUnauthorized("Not Authorized")
	}
	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		return err
	}

	if err := s.refreshRatingSummary(ctx, review.ProductID); err != nil {
		return err
	}
	return s.invalidator.Invalidate(ctx,
		cache.ReviewsChanged{ProductID: review.ProductID},
		cache.ProductsChanged{ProductIDs: []string{review.ProductID}},
		cache.AdminStale{},
	)
}

// refreshRatingSummary recomputes a product's rating aggregate from its
// current review set and writes it through the store's conditional update.
func (s *ReviewService) refreshRatingSummary(ctx context.Context, productID string) error {
	reviews, err := s.reviews.ListByProduct(ctx, productID)
	if err != nil {
		return err
	}
	summary := domain.SummarizeRatings(reviews)
	if err := s.products.UpdateRatingSummary(ctx, productID, summary); err != nil {
		return err
	}
	s.logger.Debug("rating summary refreshed",
		zap.String("productId", productID),
		zap.Int("ratings", summary.Ratings),
		zap.Int("numOfReviews", summary.NumOfReviews))
	return nil
}
