// Package observability provides OpenTelemetry tracing for connector runs.
//
// Telemetry is constructed per runner instance, not held as process-global
// state, so concurrent test runners cannot interfere with each other. Spans
// are exported to stderr; stdout is reserved for protocol messages.
package observability

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"

	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	// EnvApplication names the connector for span attribution.
	EnvApplication = "APPLICATION"
	// EnvApplicationVersion is the connector version.
	EnvApplicationVersion = "APPLICATION_VERSION"
	// EnvEnableTelemetry turns span export on. Off by default.
	EnvEnableTelemetry = "ENABLE_TELEMETRY"
)

// Config controls tracing initialization.
type Config struct {
	Application string
	Version     string
	Enabled     bool
}

// ConfigFromEnv builds a Config from the process environment. The variables
// affect tracing only; they have no effect on dispatch or message semantics.
func ConfigFromEnv() Config {
	enabled, _ := strconv.ParseBool(os.Getenv(EnvEnableTelemetry))
	return Config{
		Application: envOrDefault(EnvApplication, "unknown"),
		Version:     envOrDefault(EnvApplicationVersion, "unknown"),
		Enabled:     enabled,
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Telemetry owns a tracer provider for one runner instance. Shutdown is
// idempotent: every exit path may call it and a second call is a no-op.
type Telemetry struct {
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider

	shutdownOnce sync.Once
	shutdownErr  error
}

// New creates a Telemetry instance. When cfg.Enabled is false the tracer is
// a noop and Shutdown does nothing.
func New(cfg Config) (*Telemetry, error) {
	if !cfg.Enabled {
		return &Telemetry{tracer: noop.NewTracerProvider().Tracer(cfg.Application)}, nil
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.Application),
			semconv.ServiceVersionKey.String(cfg.Version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(os.Stderr))
	if err != nil {
		return nil, fmt.Errorf("failed to create stderr exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
	)

	return &Telemetry{
		tracer:   provider.Tracer(cfg.Application),
		provider: provider,
	}, nil
}

// Tracer returns the tracer for this instance.
func (t *Telemetry) Tracer() trace.Tracer {
	return t.tracer
}

// StartSpan starts a span under ctx.
func (t *Telemetry) StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, opts...)
}

// Shutdown flushes and stops the tracer provider. Safe to call more than
// once and on every exit path; the external process may be killed before a
// deferred call runs, so callers finalize explicitly on success and failure.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	t.shutdownOnce.Do(func() {
		if t.provider != nil {
			t.shutdownErr = t.provider.Shutdown(ctx)
		}
	})
	return t.shutdownErr
}
