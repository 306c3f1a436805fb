package handler

import (
	"net/http"

	"github.com/InQaaaaGit/usi_gateway.git/internal/models"
)

// HandleHealth обрабатывает GET /health
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:    healthyStatus,
		Timestamp: h.now(),
		Service:   serviceName,
		Version:   h.version,
	})
}
