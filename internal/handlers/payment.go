package handlers

import (
	"encoding/json"
	"net/http"

	"swiftcart-backend/internal/service"
	"swiftcart-backend/pkg/api"
)

// PaymentHandler handles the payment endpoints.
type PaymentHandler struct {
	payments *service.PaymentService
}

// NewPaymentHandler creates a payment handler.
func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type createIntentRequest struct {
	Amount int64 `json:"amount"`
}

// CreateIntent handles POST /api/v1/payment/create.
func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req createIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	clientSecret, err := h.payments.CreateIntent(r.Context(), req.Amount)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.JSON(w, http.StatusCreated, map[string]any{
		"success":      true,
		"clientSecret": clientSecret,
	})
}
