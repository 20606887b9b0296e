// Package handlers provides the HTTP handlers with injected services.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"swiftcart-backend/internal/observability"
	"swiftcart-backend/internal/service"
	"swiftcart-backend/pkg/api"
)

// ProductHandler handles the catalog and review endpoints.
type ProductHandler struct {
	products  *service.ProductService
	reviews   *service.ReviewService
	collector *observability.Collector
}

// NewProductHandler creates a product handler.
func NewProductHandler(products *service.ProductService, reviews *service.ReviewService, collector *observability.Collector) *ProductHandler {
	return &ProductHandler{products: products, reviews: reviews, collector: collector}
}

// Latest handles GET /api/v1/product/latest.
func (h *ProductHandler) Latest(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.Latest(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"products": products,
	})
}

// Categories handles GET /api/v1/product/categories.
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.products.Categories(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"categories": categories,
	})
}

// AdminProducts handles GET /api/v1/product/admin-products.
func (h *ProductHandler) AdminProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.AdminProducts(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"products": products,
	})
}

// Search handles GET /api/v1/product/all.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))

	result, err := h.products.Search(r.Context(), service.SearchQuery{
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
		Category: q.Get("category"),
		Price:    q.Get("price"),
		Page:     page,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"products":  result.Products,
		"totalPage": result.TotalPage,
	})
}

// Get handles GET /api/v1/product/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"product": product,
	})
}

// Create handles POST /api/v1/product/new.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CreateProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := h.products.Create(r.Context(), in); err != nil {
		api.HandleError(w, err)
		return
	}
	h.collector.ProductsCreated.Inc()
	api.JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Product Created Successfully",
	})
}

// Update handles PUT /api/v1/product/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in service.UpdateProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := h.products.Update(r.Context(), chi.URLParam(r, "id"), in); err != nil {
		api.HandleError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Product Updated Successfully",
	})
}

// Delete handles DELETE /api/v1/product/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		api.HandleError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Product Deleted Successfully",
	})
}

// Reviews handles GET /api/v1/product/reviews/{id}.
func (h *ProductHandler) Reviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ListByProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"reviews": reviews,
	})
}

// SubmitReview handles POST /api/v1/product/review/new/{id}. The id path
// parameter names the product; the submitting user arrives in the id query
// parameter.
func (h *ProductHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var in service.SubmitReviewInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID := r.URL.Query().Get("id")
	productID := chi.URLParam(r, "id")

	updated, err := h.reviews.Submit(r.Context(), userID, productID, in)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	h.collector.ReviewsWritten.Inc()

	status := http.StatusCreated
	message := "Review Added"
	if updated {
		status = http.StatusOK
		message = "Review Updated"
	}
	api.JSON(w, status, map[string]any{
		"success": true,
		"message": message,
	})
}

// DeleteReview handles DELETE /api/v1/product/review/{id}.
func (h *ProductHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("id")
	reviewID := chi.URLParam(r, "id")

	if err := h.reviews.Delete(r.Context(), userID, reviewID); err != nil {
		api.HandleError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Review Deleted",
	})
}
