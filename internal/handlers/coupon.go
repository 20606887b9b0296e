package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"swiftcart-backend/internal/service"
	"swiftcart-backend/pkg/api"
)

// CouponHandler handles the coupon endpoints.
type CouponHandler struct {
	coupons *service.CouponService
}

// NewCouponHandler creates a coupon handler.
func NewCouponHandler(coupons *service.CouponService) *CouponHandler {
	return &CouponHandler{coupons: coupons}
}

// Create handles POST /api/v1/coupon/new.
func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CreateCouponInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	coupon, err := h.coupons.Create(r.Context(), in)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Coupon %s Created Successfully", coupon.Code),
	})
}

// ApplyDiscount handles GET /api/v1/coupon/discount?coupon=CODE.
func (h *CouponHandler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	amount, err := h.coupons.ApplyDiscount(r.Context(), r.URL.Query().Get("coupon"))
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"discount": amount,
	})
}

// All handles GET /api/v1/coupon/all.
func (h *CouponHandler) All(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.coupons.All(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"coupons": coupons,
	})
}

// Get handles GET /api/v1/coupon/{id}.
func (h *CouponHandler) Get(w http.ResponseWriter, r *http.Request) {
	coupon, err := h.coupons.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"coupon":  coupon,
	})
}

// Update handles PUT /api/v1/coupon/{id}.
func (h *CouponHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in service.UpdateCouponInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	coupon, err := h.coupons.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Coupon %s Updated Successfully", coupon.Code),
	})
}

// Delete handles DELETE /api/v1/coupon/{id}.
func (h *CouponHandler) Delete(w http.ResponseWriter, r *http.Request) {
	coupon, err := h.coupons.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Coupon %s Deleted Successfully", coupon.Code),
	})
}
