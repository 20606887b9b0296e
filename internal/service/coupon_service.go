package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"swiftcart-backend/internal/domain"
	"swiftcart-backend/internal/repository"
	appErrors "swiftcart-backend/pkg/errors"
	"swiftcart-backend/pkg/utils"
)

// CouponService manages discount codes. Coupons are few and admin-only, so
// they bypass the cache entirely.
type CouponService struct {
	coupons repository.CouponRepository
	logger  *zap.Logger
}

// NewCouponService wires a CouponService.
func NewCouponService(coupons repository.CouponRepository, logger *zap.Logger) *CouponService {
	return &CouponService{coupons: coupons, logger: logger}
}

// CreateCouponInput is the payload for creating a coupon.
type CreateCouponInput struct {
	Code   string `json:"code" validate:"required"`
	Amount int64  `json:"amount" validate:"required,gt=0"`
}

// Create stores a new coupon. Codes are unique.
func (s *CouponService) Create(ctx context.Context, in CreateCouponInput) (domain.Coupon, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return domain.Coupon{}, err
	}
	if _, err := s.coupons.FindByCode(ctx, in.Code); err == nil {
		return domain.Coupon{}, appErrors.NewConflict("Coupon Code Already Exists")
	} else if !appErrors.IsNotFound(err) {
		return domain.Coupon{}, err
	}

	now := time.Now()
	coupon := domain.Coupon{
		ID:        uuid.NewString(),
		Code:      in.Code,
		Amount:    in.Amount,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.coupons.Create(ctx, coupon); err != nil {
		return domain.Coupon{}, err
	}
	s.logger.Info("coupon created", zap.String("couponId", coupon.ID), zap.String("code", coupon.Code))
	return coupon, nil
}

// ApplyDiscount resolves a coupon code to its discount amount.
func (s *CouponService) ApplyDiscount(ctx context.Context, code string) (int64, error) {
	coupon, err := s.coupons.FindByCode(ctx, code)
	if err != nil {
		return 0, err
	}
	return coupon.Amount, nil
}

// All returns every coupon.
func (s *CouponService) All(ctx context.Context) ([]domain.Coupon, error) {
	return s.coupons.All(ctx)
}

// Get returns a single coupon by id.
func (s *CouponService) Get(ctx context.Context, id string) (domain.Coupon, error) {
	return s.coupons.FindByID(ctx, id)
}

// UpdateCouponInput carries a partial coupon update; zero values are left
// unchanged.
type UpdateCouponInput struct {
	Code   string `json:"code"`
	Amount int64  `json:"amount"`
}

// Update applies a partial update to a coupon.
func (s *CouponService) Update(ctx context.Context, id string, in UpdateCouponInput) (domain.Coupon, error) {
	coupon, err := s.coupons.FindByID(ctx, id)
	if err != nil {
		return domain.Coupon{}, err
	}
	if in.Code != "" && in.Code != coupon.Code {
		if _, err := s.coupons.FindByCode(ctx, in.Code); err == nil {
			return domain.Coupon{}, appErrors.NewConflict("Coupon Code Already Exists")
		} else if !appErrors.IsNotFound(err) {
			return domain.Coupon{}, err
		}
		coupon.Code = in.Code
	}
	if in.Amount > 0 {
		coupon.Amount = in.Amount
	}
	coupon.UpdatedAt = time.Now()
	if err := s.coupons.Update(ctx, coupon); err != nil {
		return domain.Coupon{}, err
	}
	return coupon, nil
}

// Delete removes a coupon and returns the deleted record.
func (s *CouponService) Delete(ctx context.Context, id string) (domain.Coupon, error) {
	coupon, err := s.coupons.FindByID(ctx, id)
	if err != nil {
		return domain.Coupon{}, err
	}
	if err := s.coupons.Delete(ctx, id); err != nil {
		return domain.Coupon{}, err
	}
	return coupon, nil
}
