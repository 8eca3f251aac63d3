package server

import (
	"context"
	"net/http"
	"time"
)

// handleHealth reports component status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := struct {
		Status     string         `json:"status"`
		Components map[string]any `json:"components"`
	}{
		Status:     "healthy",
		Components: make(map[string]any),
	}

	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["postgres"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["postgres"] = "connected"
		}
	}

	health.Components["presence"] = map[string]any{
		"online": len(s.registry.Snapshot()),
	}

	stats := s.router.Stats()
	health.Components["router"] = map[string]any{
		"attempted": stats.Attempted,
		"delivered": stats.Delivered,
		"missed":    stats.Missed,
	}

	status := http.StatusOK
	if health.Status == "unhealthy" {
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, health)
}
