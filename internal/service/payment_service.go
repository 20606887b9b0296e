package service

import (
	"context"

	"go.uber.org/zap"

	"swiftcart-backend/internal/payment"
	appErrors "swiftcart-backend/pkg/errors"
)

const paymentCurrency = "inr"

// PaymentService creates payment intents for checkout. Amounts arrive in
// whole currency units and are converted to the smallest unit for the
// gateway.
type PaymentService struct {
	gateway payment.Gateway
	logger  *zap.Logger
}

// NewPaymentService wires a PaymentService.
func NewPaymentService(gateway payment.Gateway, logger *zap.Logger) *PaymentService {
	return &PaymentService{gateway: gateway, logger: logger}
}

// CreateIntent creates a payment intent and returns its client secret.
func (s *PaymentService) CreateIntent(ctx context.Context, amount int64) (string, error) {
	if amount <= 0 {
		return "", appErrors.NewValidation("Please enter amount")
	}

	intent, err := s.gateway.CreateIntent(ctx, amount*100, paymentCurrency)
	if err != nil {
		return "", err
	}
	s.logger.Info("payment intent created",
		zap.String("intentId", intent.ID),
		zap.Int64("amount", amount))
	return intent.ClientSecret, nil
}
