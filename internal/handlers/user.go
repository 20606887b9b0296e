package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"swiftcart-backend/internal/service"
	"swiftcart-backend/pkg/api"
)

// UserHandler handles the user endpoints.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a user handler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Create handles POST /api/v1/user/new. Signup is idempotent on the id:
// an already registered user just gets the welcome message back.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CreateUserInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	message, created, err := h.users.CreateOrWelcome(r.Context(), in)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	api.JSON(w, status, map[string]any{
		"success": true,
		"message": message,
	})
}

// All handles GET /api/v1/user/all.
func (h *UserHandler) All(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.All(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"users":   users,
	})
}

// Get handles GET /api/v1/user/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
	})
}

// Delete handles DELETE /api/v1/user/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		api.HandleError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "User Deleted Successfully",
	})
}
