package handlers

import (
	"net/http"

	"swiftcart-backend/internal/service"
	"swiftcart-backend/pkg/api"
)

// StatsHandler handles the admin dashboard endpoints.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler creates a stats handler.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Dashboard handles GET /api/v1/dashboard/stats.
func (h *StatsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Dashboard(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stats":   stats,
	})
}

// Pie handles GET /api/v1/dashboard/pie.
func (h *StatsHandler) Pie(w http.ResponseWriter, r *http.Request) {
	charts, err := h.stats.Pie(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"charts":  charts,
	})
}

// Bar handles GET /api/v1/dashboard/bar.
func (h *StatsHandler) Bar(w http.ResponseWriter, r *http.Request) {
	charts, err := h.stats.Bar(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"charts":  charts,
	})
}

// Line handles GET /api/v1/dashboard/line.
func (h *StatsHandler) Line(w http.ResponseWriter, r *http.Request) {
	charts, err := h.stats.Line(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"charts":  charts,
	})
}
