// Package client provides the pooled upstream HTTP client shared by every
// backend call the gateway makes.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"chat-gateway-go/internal/backend"
	"chat-gateway-go/internal/config"
	"chat-gateway-go/internal/metrics"
)

const (
	userAgent = "chat-gateway-go/1.0"

	// maxErrorBody caps how much of a non-2xx body is kept for translation.
	maxErrorBody = 1 << 20
	// maxSuccessBody caps a 2xx body handed to the decoder.
	maxSuccessBody = 32 << 20
)

// pool is the per-backend connection pool and optional breaker.
type pool struct {
	desc    backend.Descriptor
	http    *http.Client
	breaker *gobreaker.TwoStepCircuitBreaker[struct{}]
}

// Client sends requests to the configured backends.
type Client struct {
	pools   map[string]*pool
	retry   config.RetryConfig
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// NewClient creates one connection pool per registered backend.
// The metrics parameter is optional; pass nil to disable upstream metrics recording.
func NewClient(cfg *config.Config, reg *backend.Registry, logger *slog.Logger, m *metrics.Metrics) *Client {
	logger = logger.With("component", "upstream_client")

	c := &Client{
		pools:   make(map[string]*pool),
		retry:   cfg.Upstream.Retry,
		logger:  logger,
		metrics: m,
		tracer:  otel.Tracer("chat-gateway-go/internal/client"),
	}
	for _, d := range reg.All() {
		p := &pool{
			desc: d,
			http: newHTTPClient(d.Config, cfg.Upstream.IdleConnections),
		}
		if cfg.Upstream.Breaker.Enabled {
			p.breaker = newBreaker(d.Name, cfg.Upstream.Breaker, logger, m)
		}
		c.pools[d.Name] = p
	}
	return c
}

// Do sends req and, on a 2xx answer, decodes the body into out. A nil out,
// a 204 or an empty body skips decoding. Any failure is returned as a
// *Failure; the returned status is the upstream status when one was received.
func (c *Client) Do(ctx context.Context, req *Request, out any) (int, error) {
	p, ok := c.pools[req.Backend]
	if !ok {
		return 0, fmt.Errorf("%w: unknown backend %q", backend.ErrConfiguration, req.Backend)
	}

	ctx, span := c.tracer.Start(ctx, "upstream "+req.Backend,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("gateway.backend", req.Backend),
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.Path),
		),
	)
	defer span.End()

	status, err := withRetry(ctx, c.retry, req.Method, func() (int, error) {
		return c.once(ctx, p, req, out)
	})
	if status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return status, err
}

func (c *Client) once(ctx context.Context, p *pool, req *Request, out any) (int, error) {
	fail := func(f *Failure) *Failure {
		f.Backend, f.Method, f.Path = req.Backend, req.Method, req.Path
		c.recordFailure(f)
		return f
	}

	body, contentType, err := req.body()
	if err != nil {
		return 0, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, p.desc.URL(req.Path, req.Query), body)
	if err != nil {
		return 0, fmt.Errorf("build upstream request: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("User-Agent", userAgent)
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if id := requestIDFrom(ctx); id != "" {
		httpReq.Header.Set("X-Request-Id", id)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	done := func(error) {}
	if p.breaker != nil {
		allowDone, err := p.breaker.Allow()
		if err != nil {
			return 0, fail(&Failure{Kind: KindNetwork, Err: err})
		}
		done = allowDone
	}

	c.logger.Debug("upstream request",
		"backend", req.Backend,
		"method", req.Method,
		"path", req.Path,
	)

	start := time.Now()
	resp, err := p.http.Do(httpReq)
	method := metrics.NormalizeMethod(req.Method)
	if c.metrics != nil {
		c.metrics.UpstreamDuration.WithLabelValues(req.Backend, method).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		// A caller that gave up says nothing about the backend's health.
		if errors.Is(err, context.Canceled) {
			done(nil)
		} else {
			done(err)
		}
		return 0, fail(&Failure{Kind: classify(err), Err: err})
	}
	defer func() { _ = resp.Body.Close() }()

	if c.metrics != nil {
		c.metrics.UpstreamResponses.WithLabelValues(req.Backend, method, strconv.Itoa(resp.StatusCode)).Inc()
	}

	success := resp.StatusCode >= 200 && resp.StatusCode < 300
	limit := int64(maxErrorBody)
	if success {
		limit = maxSuccessBody
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		err = fmt.Errorf("read response body: %w", err)
		done(err)
		return resp.StatusCode, fail(&Failure{Kind: classify(err), Err: err})
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		done(fmt.Errorf("upstream status %d", resp.StatusCode))
	} else {
		done(nil)
	}

	if !success {
		if int64(len(data)) > limit {
			data = data[:limit]
		}
		return resp.StatusCode, fail(&Failure{Kind: KindStatus, StatusCode: resp.StatusCode, Body: data})
	}
	if int64(len(data)) > limit {
		return resp.StatusCode, fail(&Failure{
			Kind:       KindDecode,
			StatusCode: resp.StatusCode,
			Err:        errors.New("response body exceeds size limit"),
		})
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return resp.StatusCode, nil
	}
	if err := decode(data, out); err != nil {
		return resp.StatusCode, fail(&Failure{
			Kind:       KindDecode,
			StatusCode: resp.StatusCode,
			Body:       truncate(data, maxErrorBody),
			Err:        err,
		})
	}
	return resp.StatusCode, nil
}

func (c *Client) recordFailure(f *Failure) {
	if c.metrics != nil {
		c.metrics.UpstreamFailures.WithLabelValues(f.Backend, f.Kind.String()).Inc()
	}
	attrs := []any{
		"backend", f.Backend,
		"method", f.Method,
		"path", f.Path,
		"kind", f.Kind.String(),
	}
	if f.StatusCode != 0 {
		attrs = append(attrs, "status", f.StatusCode)
	}
	if f.Err != nil {
		attrs = append(attrs, "error", f.Err)
	}
	if f.Kind == KindStatus && f.StatusCode < http.StatusInternalServerError {
		c.logger.Debug("upstream call failed", attrs...)
		return
	}
	c.logger.Warn("upstream call failed", attrs...)
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}
