package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/require"

	"chat-gateway-go/internal/backend"
	"chat-gateway-go/internal/client"
	"chat-gateway-go/internal/config"
	"chat-gateway-go/internal/service"
)

// newTestGateway builds the full handler stack with every backend pointed at
// baseURL.
func newTestGateway(t *testing.T, baseURL string) *echo.Echo {
	t.Helper()

	cfg := &config.Config{
		Environment: "test",
		Upstream:    config.UpstreamConfig{IdleConnections: 4},
		Backends:    make(map[string]config.BackendConfig),
	}
	for _, name := range config.BackendNames() {
		cfg.Backends[name] = config.BackendConfig{
			BaseURL:               baseURL,
			ConnectTimeoutSeconds: 1,
			ReadTimeoutSeconds:    5,
			WriteTimeoutSeconds:   5,
			TimeoutSeconds:        10,
		}
	}
	reg, err := backend.NewRegistry(cfg)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	up := client.NewClient(cfg, reg, logger, nil)

	e := echo.New()
	Configure(e, logger)
	e.Use(echomw.RequestID())
	RegisterRoutes(e, Handlers{
		Health:     NewHealthHandler(cfg, reg, "test"),
		Channels:   NewChannelHandler(service.NewChannelService(up)),
		Users:      NewUserHandler(service.NewUserService(up)),
		Messages:   NewMessageHandler(service.NewMessageService(up)),
		Threads:    NewThreadHandler(service.NewThreadService(up)),
		Moderation: NewModerationHandler(service.NewModerationService(up)),
		Presence:   NewPresenceHandler(service.NewPresenceService(up)),
		Search:     NewSearchHandler(service.NewSearchService(up, cfg, logger, nil)),
		Files:      NewFileHandler(service.NewFileService(up)),
		Chatbots:   NewChatbotHandler(service.NewWikipediaService(up), service.NewChatbotService(up)),
	})
	return e
}

// recordingBackend answers every request with status and body and counts hits.
type recordingBackend struct {
	*httptest.Server
	hits    atomic.Int32
	lastReq atomic.Pointer[http.Request]
}

func newRecordingBackend(t *testing.T, status int, body string) *recordingBackend {
	t.Helper()
	b := &recordingBackend{}
	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.hits.Add(1)
		b.lastReq.Store(r.Clone(r.Context()))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(b.Close)
	return b
}

func serve(e *echo.Echo, method, target, body string, header http.Header) *httptest.ResponseRecorder {
	var r io.Reader = http.NoBody
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}
