package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vortrixs/user-api/internal/middleware"
	"github.com/vortrixs/user-api/internal/server"
)

type healthCheck struct {
	name  string
	check func(ctx context.Context) error
}

type HealthHandler struct {
	Handler
	checks []healthCheck
}

// NewHealthHandler registers the dependency checks that are both configured
// and present: the database, and redis when background jobs are enabled.
func NewHealthHandler(s *server.Server) *HealthHandler {
	h := &HealthHandler{Handler: NewHandler(s)}

	obs := s.Config.Observability
	enabled := func(name string) bool {
		return obs == nil || obs.HealthCheckEnabled(name)
	}

	if s.DB != nil && enabled("database") {
		h.checks = append(h.checks, healthCheck{name: "database", check: s.DB.Pool.Ping})
	}
	if s.Redis != nil && enabled("redis") {
		h.checks = append(h.checks, healthCheck{name: "redis", check: func(ctx context.Context) error {
			return s.Redis.Ping(ctx).Err()
		}})
	}

	return h
}

func (h *HealthHandler) timeout() time.Duration {
	if obs := h.server.Config.Observability; obs != nil && obs.HealthChecks.Timeout > 0 {
		return obs.HealthChecks.Timeout
	}
	return 5 * time.Second
}

// CheckHealth answers 200 when every check passes and 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().Str("operation", "health_check").Logger()

	checks := make(map[string]any, len(h.checks))
	healthy := true

	for _, hc := range h.checks {
		ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout())
		checkStart := time.Now()
		err := hc.check(ctx)
		cancel()

		result := map[string]any{
			"status":        "healthy",
			"response_time": time.Since(checkStart).String(),
		}
		if err != nil {
			healthy = false
			result["status"] = "unhealthy"
			result["error"] = err.Error()

			logger.Error().Err(err).Str("check", hc.name).Msg("health check failed")
			h.recordFailure(hc.name, err, time.Since(checkStart))
		}
		checks[hc.name] = result
	}

	response := map[string]any{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	if !healthy {
		response["status"] = "unhealthy"
		logger.Warn().Dur("total_duration", time.Since(start)).Msg("service unhealthy")
		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().Dur("total_duration", time.Since(start)).Msg("health check passed")
	return c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) recordFailure(check string, err error, elapsed time.Duration) {
	app := h.server.LoggerService.GetApplication()
	if app == nil {
		return
	}

	app.RecordCustomEvent("HealthCheckError", map[string]any{
		"check_type":       check,
		"operation":        "health_check",
		"error_type":       check + "_unhealthy",
		"response_time_ms": elapsed.Milliseconds(),
		"error_message":    err.Error(),
	})
}
