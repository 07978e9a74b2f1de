// Package tracing configures OpenTelemetry for the gateway.
package tracing

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"chat-gateway-go/internal/config"
)

// InstrumentationName identifies spans created by the gateway itself.
const InstrumentationName = "chat-gateway-go"

// Provider owns the tracer provider installed at startup.
type Provider struct {
	tp *sdktrace.TracerProvider
}

// Setup installs the W3C trace-context propagator and, when tracing is
// enabled, a tracer provider exporting spans to w. With tracing disabled the
// global no-op provider is kept, so inbound trace context still reaches the
// backends.
func Setup(cfg *config.Config, version string, w io.Writer, logger *slog.Logger) (*Provider, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if !cfg.Tracing.Enabled {
		return &Provider{}, nil
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.Tracing.ServiceName),
		attribute.String("service.version", version),
		attribute.String("deployment.environment.name", cfg.Environment),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)
	otel.SetTracerProvider(tp)

	logger.Info("tracing enabled", "service", cfg.Tracing.ServiceName, "exporter", "stdout")
	return &Provider{tp: tp}, nil
}

// Tracer returns the gateway's tracer from the global provider.
func (p *Provider) Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}

// Shutdown flushes pending spans. It is a no-op when tracing is disabled.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.tp == nil {
		return nil
	}
	return p.tp.Shutdown(ctx)
}
