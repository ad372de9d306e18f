// Package health implements the liveness/readiness endpoint.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/cotato/auth-service/internal/observability/logger"
)

const checkTimeout = 2 * time.Second

// CheckFunc probes one backend.
type CheckFunc func(ctx context.Context) error

// Controller handles GET /healthz.
type Controller struct {
	checks map[string]CheckFunc
}

// NewController creates a health controller over named backend probes.
func NewController(checks map[string]CheckFunc) *Controller {
	return &Controller{checks: checks}
}

// Health runs every probe and reports per-component status. Any failing
// probe turns the whole response into a 503.
func (c *Controller) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	status := http.StatusOK
	components := make(map[string]string, len(c.checks))
	for name, check := range c.checks {
		if err := check(ctx); err != nil {
			logger.From(r.Context()).Warn("health check failed",
				logger.Component(name), logger.Err(err))
			components[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		components[name] = "up"
	}

	body := map[string]any{"status": "ok", "components": components}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
