package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/frahmantamala/office-management/internal/store"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

type componentHealth struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms"`
}

type healthReport struct {
	Status     string                     `json:"status"`
	CheckedAt  time.Time                  `json:"checked_at"`
	Components map[string]componentHealth `json:"components"`
}

type HealthHandler struct {
	checks  map[string]HealthCheck
	timeout time.Duration
}

// NewHealthHandler probes the record store under the given component name.
// A nil store leaves only the ping endpoint meaningful.
func NewHealthHandler(s store.Pinger, component string) *HealthHandler {
	h := &HealthHandler{checks: map[string]HealthCheck{}, timeout: 2 * time.Second}
	if s != nil {
		h.checks[component] = s.PingContext
	}
	return h
}

func (h *HealthHandler) pingHandler(w http.ResponseWriter, _ *http.Request) {
	writeHealthJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// healthCheckHandler runs every probe and answers 503 if any failed.
func (h *HealthHandler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	report := healthReport{Status: statusHealthy, Components: make(map[string]componentHealth, len(names))}
	for _, name := range names {
		start := time.Now()
		err := h.checks[name](ctx)
		c := componentHealth{Status: statusHealthy, LatencyMs: time.Since(start).Milliseconds()}
		if err != nil {
			c.Status = statusUnhealthy
			c.Error = err.Error()
			report.Status = statusUnhealthy
		}
		report.Components[name] = c
	}
	report.CheckedAt = time.Now()

	code := http.StatusOK
	if report.Status != statusHealthy {
		code = http.StatusServiceUnavailable
	}
	writeHealthJSON(w, code, report)
}

func writeHealthJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
