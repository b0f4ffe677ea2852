package api

import (
	"context"
	"net/http"
	"time"

	"nba-chat/internal/models"
)

// Checker reports whether a dependency is reachable
type Checker func(ctx context.Context) error

type HealthHandler struct {
	ollama   Checker
	database Checker
}

// NewHealthHandler creates a health handler. Nil checkers are skipped.
func NewHealthHandler(ollama, database Checker) *HealthHandler {
	return &HealthHandler{ollama: ollama, database: database}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	resp := models.HealthResponse{Status: "ok"}
	resp.Ollama = h.check(ctx, h.ollama, &resp)
	resp.Database = h.check(ctx, h.database, &resp)

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

func (h *HealthHandler) check(ctx context.Context, c Checker, resp *models.HealthResponse) *models.ServiceCheck {
	if c == nil {
		return nil
	}
	if err := c(ctx); err != nil {
		resp.Status = "degraded"
		return &models.ServiceCheck{Status: "error", Message: err.Error()}
	}
	return &models.ServiceCheck{Status: "ok"}
}
