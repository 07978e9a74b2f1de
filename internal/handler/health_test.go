package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"chat-gateway-go/internal/backend"
	"chat-gateway-go/internal/config"
	"chat-gateway-go/internal/model"
)

func newHealthHandler(t *testing.T, cfg *config.Config, v Version) *HealthHandler {
	t.Helper()
	reg, err := backend.NewRegistry(cfg)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return NewHealthHandler(cfg, reg, v)
}

func TestHealthz(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := newHealthHandler(t, &config.Config{}, "test")
	if err := h.Healthz(c); err != nil {
		t.Fatalf("Healthz() error = %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want %q", body["status"], "ok")
	}
}

func TestRoot(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := newHealthHandler(t, &config.Config{Environment: "staging"}, "test")
	if err := h.Root(c); err != nil {
		t.Fatalf("Root() error = %v", err)
	}

	var body model.RootInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Message != rootMessage {
		t.Errorf("message = %q, want %q", body.Message, rootMessage)
	}
	if body.Environment != "staging" {
		t.Errorf("environment = %q, want %q", body.Environment, "staging")
	}
}

func TestStatus(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/gateway/status", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	cfg := &config.Config{
		Environment: "production",
		Backends: map[string]config.BackendConfig{
			"users":    {BaseURL: "http://users.internal:8000/", TimeoutSeconds: 10},
			"channels": {BaseURL: "http://channels.internal:8001", TimeoutSeconds: 10},
		},
		Search: config.SearchConfig{FanOut: true},
	}
	h := newHealthHandler(t, cfg, "1.2.3")
	if err := h.Status(c); err != nil {
		t.Fatalf("Status() error = %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body model.GatewayStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Version != "1.2.3" {
		t.Errorf("body.version = %q, want %q", body.Version, "1.2.3")
	}
	if !body.FanOut {
		t.Error("body.search_fan_out = false, want true")
	}
	if len(body.Backends) != 2 {
		t.Fatalf("len(backends) = %d, want 2", len(body.Backends))
	}
	if body.Backends[0].Name != "channels" || body.Backends[1].BaseURL != "http://users.internal:8000" {
		t.Errorf("backends = %+v", body.Backends)
	}
}
