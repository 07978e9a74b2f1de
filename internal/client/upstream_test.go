package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-gateway-go/internal/backend"
	"chat-gateway-go/internal/config"
	"chat-gateway-go/internal/metrics"
)

func testClient(t *testing.T, baseURL string, mutate func(*config.Config)) *Client {
	t.Helper()
	cfg := &config.Config{
		Upstream: config.UpstreamConfig{IdleConnections: 4},
		Backends: map[string]config.BackendConfig{
			"channels": {
				BaseURL:               baseURL,
				ConnectTimeoutSeconds: 1,
				ReadTimeoutSeconds:    5,
				WriteTimeoutSeconds:   5,
				TimeoutSeconds:        10,
			},
		},
	}
	if mutate != nil {
		mutate(cfg)
	}
	reg, err := backend.NewRegistry(cfg)
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(cfg, reg, logger, metrics.New())
}

type channel struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

func TestClient_DoDecodesSuccess(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"_id":"c1","name":"general"}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL+"/", nil)
	ctx := WithRequestID(context.Background(), "req-123")

	var out channel
	status, err := c.Do(ctx, &Request{
		Backend: "channels",
		Method:  http.MethodGet,
		Path:    backend.Pathf("/v1/channels/%s", "c1"),
		Query:   url.Values{"page": {"2"}},
		Header:  http.Header{"X-User-Id": {"u1"}},
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, channel{ID: "c1", Name: "general"}, out)

	require.NotNil(t, got)
	assert.Equal(t, "/v1/channels/c1", got.URL.Path)
	assert.Equal(t, "2", got.URL.Query().Get("page"))
	assert.Equal(t, "u1", got.Header.Get("X-User-Id"))
	assert.Equal(t, "req-123", got.Header.Get("X-Request-Id"))
	assert.Equal(t, userAgent, got.Header.Get("User-Agent"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
}

func TestClient_DoSendsJSONBody(t *testing.T) {
	var contentType, body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"_id":"c9","name":"new"}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, nil)
	var out channel
	status, err := c.Do(context.Background(), &Request{
		Backend: "channels",
		Method:  http.MethodPost,
		Path:    "/v1/channels/",
		JSON:    map[string]string{"name": "new"},
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "application/json", contentType)
	assert.JSONEq(t, `{"name":"new"}`, body)
	assert.Equal(t, "c9", out.ID)
}

func TestClient_DoNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, nil)
	var out channel
	status, err := c.Do(context.Background(), &Request{Backend: "channels", Method: http.MethodDelete, Path: "/v1/channels/c1"}, &out)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, status)
	assert.Equal(t, channel{}, out)
}

func TestClient_DoEmptyBodyIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, nil)
	var out channel
	_, err := c.Do(context.Background(), &Request{Backend: "channels", Method: http.MethodPost, Path: "/v1/channels/c1/reactivate"}, &out)
	require.NoError(t, err)
}

func TestClient_DoStatusFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Channel not found"}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, nil)
	status, err := c.Do(context.Background(), &Request{Backend: "channels", Method: http.MethodGet, Path: "/v1/channels/missing"}, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, status)

	f, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, KindStatus, f.Kind)
	assert.Equal(t, http.StatusNotFound, f.StatusCode)
	assert.Equal(t, "channels", f.Backend)
	assert.JSONEq(t, `{"detail":"Channel not found"}`, string(f.Body))
	assert.True(t, f.HasResponse())
}

func TestClient_DoDecodeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, nil)
	var out channel
	_, err := c.Do(context.Background(), &Request{Backend: "channels", Method: http.MethodGet, Path: "/v1/channels/c1"}, &out)
	f, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, KindDecode, f.Kind)
}

type requiredChannel struct {
	ID   string `json:"_id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

func TestClient_DoRejectsBodiesMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name string
		body string
		out  any
	}{
		{"null object", `null`, &requiredChannel{}},
		{"null with whitespace", " null\n", &requiredChannel{}},
		{"empty object", `{}`, &requiredChannel{}},
		{"wrong shape", `{"unrelated":true}`, &requiredChannel{}},
		{"null list", `null`, &[]requiredChannel{}},
		{"list item missing field", `[{"_id":"c1","name":"a"},{"_id":"c2"}]`, &[]requiredChannel{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			c := testClient(t, srv.URL, nil)
			status, err := c.Do(context.Background(), &Request{Backend: "channels", Method: http.MethodGet, Path: "/v1/channels/c1"}, tt.out)
			assert.Equal(t, http.StatusOK, status)
			f, ok := AsFailure(err)
			require.True(t, ok, "expected a decode failure, got %v", err)
			assert.Equal(t, KindDecode, f.Kind)
			assert.Equal(t, http.StatusOK, f.StatusCode)
		})
	}
}

func TestClient_DoAcceptsCompleteBodies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"_id":"c1","name":"a"},{"_id":"c2","name":"b"}]`)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, nil)
	var out []requiredChannel
	_, err := c.Do(context.Background(), &Request{Backend: "channels", Method: http.MethodGet, Path: "/v1/channels/"}, &out)
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestClient_DoConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	c := testClient(t, base, nil)
	status, err := c.Do(context.Background(), &Request{Backend: "channels", Method: http.MethodGet, Path: "/v1/channels/"}, nil)
	assert.Equal(t, 0, status)
	f, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, KindNetwork, f.Kind)
	assert.False(t, f.HasResponse())
}

func TestClient_DoDeadlineIsTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := testClient(t, srv.URL, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Do(ctx, &Request{Backend: "channels", Method: http.MethodGet, Path: "/slow"}, nil)
	f, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, KindTimeout, f.Kind)
}

func TestClient_DoCanceledIsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.Do(ctx, &Request{Backend: "channels", Method: http.MethodGet, Path: "/slow"}, nil)
	f, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, KindNetwork, f.Kind)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClient_DoMultipart(t *testing.T) {
	type seen struct {
		field, filename, contentType, data, messageID string
	}
	var s seen
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for field, headers := range r.MultipartForm.File {
			fh := headers[0]
			f, err := fh.Open()
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			b, _ := io.ReadAll(f)
			_ = f.Close()
			s = seen{field, fh.Filename, fh.Header.Get("Content-Type"), string(b), r.URL.Query().Get("message_id")}
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"_id":"f1","name":"notes.txt"}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, nil)
	var out channel
	status, err := c.Do(context.Background(), &Request{
		Backend: "channels",
		Method:  http.MethodPost,
		Path:    "/v1/files",
		Query:   url.Values{"message_id": {"m1"}},
		File:    &FilePart{Field: "upload", Filename: "notes.txt", ContentType: "text/plain", Data: []byte("hello")},
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, seen{"upload", "notes.txt", "text/plain", "hello", "m1"}, s)
}

func TestClient_DoUnknownBackend(t *testing.T) {
	c := testClient(t, "http://127.0.0.1:1", nil)
	_, err := c.Do(context.Background(), &Request{Backend: "billing", Method: http.MethodGet, Path: "/"}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, backend.ErrConfiguration))
}

func TestClient_StatusFailureIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, func(cfg *config.Config) {
		cfg.Upstream.Retry = config.RetryConfig{MaxRetries: 3, InitialIntervalMS: 1, MaxIntervalMS: 2}
	})
	_, err := c.Do(context.Background(), &Request{Backend: "channels", Method: http.MethodGet, Path: "/"}, nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestClient_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, func(cfg *config.Config) {
		cfg.Upstream.Breaker = config.BreakerConfig{Enabled: true, ConsecutiveFailures: 2, OpenSeconds: 60, HalfOpenRequests: 1}
	})
	req := &Request{Backend: "channels", Method: http.MethodGet, Path: "/"}

	for range 2 {
		_, err := c.Do(context.Background(), req, nil)
		f, ok := AsFailure(err)
		require.True(t, ok)
		assert.Equal(t, KindStatus, f.Kind)
	}

	_, err := c.Do(context.Background(), req, nil)
	f, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, KindNetwork, f.Kind)
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.Equal(t, int32(2), hits.Load())
}

func TestClient_BreakerIgnoresClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, func(cfg *config.Config) {
		cfg.Upstream.Breaker = config.BreakerConfig{Enabled: true, ConsecutiveFailures: 1, OpenSeconds: 60, HalfOpenRequests: 1}
	})
	req := &Request{Backend: "channels", Method: http.MethodGet, Path: "/"}
	for range 3 {
		_, err := c.Do(context.Background(), req, nil)
		f, ok := AsFailure(err)
		require.True(t, ok)
		assert.Equal(t, KindStatus, f.Kind)
	}
}

func TestClient_BreakerIgnoresCanceledCallers(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/slow" {
			<-r.Context().Done()
			return
		}
		hits.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, func(cfg *config.Config) {
		cfg.Upstream.Breaker = config.BreakerConfig{Enabled: true, ConsecutiveFailures: 1, OpenSeconds: 60, HalfOpenRequests: 1}
	})

	for range 2 {
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()
		_, err := c.Do(ctx, &Request{Backend: "channels", Method: http.MethodGet, Path: "/slow"}, nil)
		require.ErrorIs(t, err, context.Canceled)
		cancel()
	}

	status, err := c.Do(context.Background(), &Request{Backend: "channels", Method: http.MethodGet, Path: "/ok"}, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, status)
	assert.Equal(t, int32(1), hits.Load())
}
