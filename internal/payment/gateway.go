// Package payment integrates the external payment provider. The HTTP
// gateway sits behind a circuit breaker so a degraded provider fails fast
// instead of tying up request handlers.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	appErrors "swiftcart-backend/pkg/errors"
)

// Intent is a created payment intent. The client secret is handed to the
// browser to confirm the payment.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

// Gateway creates payment intents with the provider. Amounts are in the
// currency's smallest unit.
type Gateway interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (Intent, error)
}

// HTTPGateway talks to the provider's REST API.
type HTTPGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewHTTPGateway builds a gateway for the provider at baseURL.
func NewHTTPGateway(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *HTTPGateway {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "payment-gateway",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.8
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return &HTTPGateway{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		breaker: breaker,
		logger:  logger,
	}
}

func (g *HTTPGateway) CreateIntent(ctx context.Context, amount int64, currency string) (Intent, error) {
	result, err := g.breaker.Execute(func() (any, error) {
		return g.createIntent(ctx, amount, currency)
	})
	if err != nil {
		switch err {
		case gobreaker.ErrOpenState, gobreaker.ErrTooManyRequests:
			return Intent{}, appErrors.NewInternal("Payment service temporarily unavailable", err)
		}
		return Intent{}, err
	}
	return result.(Intent), nil
}

func (g *HTTPGateway) createIntent(ctx context.Context, amount int64, currency string) (Intent, error) {
	payload, err := json.Marshal(map[string]any{
		"amount":   amount,
		"currency": currency,
	})
	if err != nil {
		return Intent{}, fmt.Errorf("marshal intent request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/v1/payment_intents", bytes.NewReader(payload))
	if err != nil {
		return Intent{}, fmt.Errorf("build intent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return Intent{}, fmt.Errorf("payment gateway request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Intent{}, fmt.Errorf("read gateway response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		g.logger.Warn("payment gateway rejected intent",
			zap.Int("status", resp.StatusCode),
			zap.Int64("amount", amount))
		return Intent{}, fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
	}

	var intent Intent
	if err := json.Unmarshal(body, &intent); err != nil {
		return Intent{}, fmt.Errorf("decode gateway response: %w", err)
	}
	return intent, nil
}
