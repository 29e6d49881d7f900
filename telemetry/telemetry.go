// Package telemetry installs an OTLP/HTTP tracer provider so the spans the
// machines emit (see package observe) leave the process.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/amp-labs/stateshaft/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

// In-cluster collector used when running under Kubernetes without an explicit endpoint.
const kubernetesCollectorEndpoint = "http://opentelemetry-collector.opentelemetry.svc.cluster.local:4318"

var (
	mu             sync.Mutex               //nolint:gochecknoglobals
	tracerProvider *sdktrace.TracerProvider //nolint:gochecknoglobals
)

// LoadConfigFromEnv reads config.Telemetry from the environment and fills
// in the in-cluster collector endpoint when running under Kubernetes.
func LoadConfigFromEnv() (*config.Telemetry, error) {
	var cfg config.Telemetry
	if err := config.Parse(&cfg); err != nil {
		return nil, err
	}

	if cfg.Endpoint == "" && os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		cfg.Endpoint = kubernetesCollectorEndpoint
	}

	return &cfg, nil
}

// Initialize installs a batching OTLP/HTTP tracer provider as the global
// provider. It does nothing when tracing is disabled or no endpoint is set.
func Initialize(ctx context.Context, cfg *config.Telemetry) error {
	if cfg == nil || !cfg.Enabled {
		slog.DebugContext(ctx, "OpenTelemetry tracing is disabled")

		return nil
	}

	if cfg.Endpoint == "" {
		slog.WarnContext(ctx, "OpenTelemetry endpoint not configured, tracing will be disabled")

		return nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(cfg.ServiceVersion),
			semconv.DeploymentEnvironmentKey.String(cfg.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(cfg.Endpoint),
		otlptracehttp.WithTimeout(cfg.Timeout),
	)
	if err != nil {
		return fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	mu.Lock()
	tracerProvider = tp
	mu.Unlock()

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	slog.InfoContext(ctx, "OpenTelemetry tracing initialized",
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
		"environment", cfg.Environment,
		"endpoint", cfg.Endpoint,
	)

	return nil
}

// Enabled reports whether Initialize installed a provider that has not been shut down.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()

	return tracerProvider != nil
}

// Shutdown flushes and stops the provider installed by Initialize.
func Shutdown(ctx context.Context) error {
	mu.Lock()
	tp := tracerProvider
	tracerProvider = nil
	mu.Unlock()

	if tp == nil {
		return nil
	}

	slog.DebugContext(ctx, "Shutting down OpenTelemetry tracer provider")

	return tp.Shutdown(ctx)
}
