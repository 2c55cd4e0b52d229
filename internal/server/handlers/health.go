package handlers

import (
	"net/http"
	"time"

	"github.com/agentstation/luga/internal/server/response"
)

// HandleHealth handles GET /health and GET /api/v1/health (liveness probe).
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "luga-dashboard",
		"version": h.version,
	})
}

// HandleReady handles GET /api/v1/ready.
func (h *Handlers) HandleReady(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":         "ready",
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
		"results":        h.results.GetStats(),
	})
}
