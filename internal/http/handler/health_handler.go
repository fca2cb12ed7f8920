package handler

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// HealthCheck probes one dependency
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type HealthHandler struct {
	checks []HealthCheck
	logger *zap.Logger
}

func NewHealthHandler(logger *zap.Logger, checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks, logger: logger}
}

// Live is the liveness probe
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Ready runs every dependency check and reports 503 if any fails
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]interface{}, len(h.checks))
	allHealthy := true

	for _, c := range h.checks {
		if err := c.Check(r.Context()); err != nil {
			h.logger.Error("health check failed", zap.String("dependency", c.Name), zap.Error(err))
			checks[c.Name] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
			continue
		}
		checks[c.Name] = map[string]interface{}{"status": "healthy"}
	}

	status, label := http.StatusOK, "healthy"
	if !allHealthy {
		status, label = http.StatusServiceUnavailable, "unhealthy"
	}
	respondJSON(w, status, map[string]interface{}{
		"status": label,
		"checks": checks,
	})
}
