package handlers

import (
	"net/http"

	"mainstream-shop/internal/database"
)

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	db *database.DB
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "unhealthy",
			"error":  "database unreachable",
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"database": h.db.Driver(),
	})
}
