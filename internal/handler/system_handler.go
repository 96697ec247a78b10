package handler

import (
	"context"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/medconsole/admin-backend/internal/response"
)

// healthCheckTimeout bounds every dependency ping.
const healthCheckTimeout = 2 * time.Second

// Check pings one dependency.
type Check func(ctx context.Context) error

// SystemHandler reports process health and dependency reachability.
type SystemHandler struct {
	mode      string
	checks    map[string]Check
	startTime time.Time
	log       zerolog.Logger
}

// NewSystemHandler creates a SystemHandler. mode is reported as-is ("demo" or "database").
func NewSystemHandler(mode string, checks map[string]Check, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		mode:      mode,
		checks:    checks,
		startTime: time.Now(),
		log:       log.With().Str("component", "system_handler").Logger(),
	}
}

type healthStatus struct {
	Status     string            `json:"status"`
	Mode       string            `json:"mode"`
	Uptime     string            `json:"uptime"`
	Goroutines int               `json:"goroutines"`
	Checks     map[string]string `json:"checks"`
}

// Health godoc
// GET /health
// Always 200 while the process serves requests; an unreachable dependency
// degrades the status because reads fall back to demo data.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]string, len(h.checks))
	)
	for name, check := range h.checks {
		wg.Add(1)
		go func(name string, check Check) {
			defer wg.Done()
			result := "ok"
			if err := check(ctx); err != nil {
				h.log.Warn().Err(err).Str("dependency", name).Msg("Health check failed")
				result = "unreachable"
			}
			mu.Lock()
			results[name] = result
			mu.Unlock()
		}(name, check)
	}
	wg.Wait()

	status := "ok"
	for _, r := range results {
		if r != "ok" {
			status = "degraded"
		}
	}

	response.Success(c, http.StatusOK, healthStatus{
		Status:     status,
		Mode:       h.mode,
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
		Goroutines: runtime.NumGoroutine(),
		Checks:     results,
	})
}
