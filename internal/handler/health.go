package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"chat-gateway-go/internal/backend"
	"chat-gateway-go/internal/config"
	"chat-gateway-go/internal/model"
)

// Version is a string type for dependency injection of the build version.
type Version string

const rootMessage = "Hello from the API gateway"

// HealthHandler serves gateway-local informational endpoints.
type HealthHandler struct {
	cfg      *config.Config
	registry *backend.Registry
	version  Version
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(cfg *config.Config, reg *backend.Registry, v Version) *HealthHandler {
	return &HealthHandler{cfg: cfg, registry: reg, version: v}
}

// Root greets the caller and names the deployment environment.
func (h *HealthHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, model.RootInfo{
		Message:     rootMessage,
		Environment: h.cfg.Environment,
	})
}

// Healthz returns a simple OK response for liveness probes.
func (h *HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Status reports the version and the configured backends. Backends are not
// probed.
func (h *HealthHandler) Status(c echo.Context) error {
	descs := h.registry.All()
	backends := make([]model.BackendStatus, 0, len(descs))
	for _, d := range descs {
		backends = append(backends, model.BackendStatus{
			Name:           d.Name,
			BaseURL:        d.BaseURL,
			TimeoutSeconds: d.Config.TimeoutSeconds,
		})
	}
	return c.JSON(http.StatusOK, model.GatewayStatus{
		Status:      "ok",
		Version:     string(h.version),
		Environment: h.cfg.Environment,
		FanOut:      h.cfg.Search.FanOut,
		Backends:    backends,
	})
}
