package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"swiftcart-backend/internal/observability"
	"swiftcart-backend/internal/service"
	"swiftcart-backend/pkg/api"
)

// OrderHandler handles the order endpoints.
type OrderHandler struct {
	orders    *service.OrderService
	collector *observability.Collector
}

// NewOrderHandler creates an order handler.
func NewOrderHandler(orders *service.OrderService, collector *observability.Collector) *OrderHandler {
	return &OrderHandler{orders: orders, collector: collector}
}

// Place handles POST /api/v1/order/new.
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	var in service.PlaceOrderInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := h.orders.Place(r.Context(), in); err != nil {
		api.HandleError(w, err)
		return
	}
	h.collector.OrdersPlaced.Inc()
	api.JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Order Placed Successfully",
	})
}

// My handles GET /api/v1/order/my.
func (h *OrderHandler) My(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.My(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"orders":  orders,
	})
}

// All handles GET /api/v1/order/all.
func (h *OrderHandler) All(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.All(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"orders":  orders,
	})
}

// Get handles GET /api/v1/order/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"order":   order,
	})
}

// Process handles PUT /api/v1/order/{id}.
func (h *OrderHandler) Process(w http.ResponseWriter, r *http.Request) {
	if _, err := h.orders.Process(r.Context(), chi.URLParam(r, "id")); err != nil {
		api.HandleError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Order Processed Successfully",
	})
}

// Delete handles DELETE /api/v1/order/{id}.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		api.HandleError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Order Deleted Successfully",
	})
}
