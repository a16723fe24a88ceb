// Package telemetry installs the OpenTelemetry tracer provider.
package telemetry

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type Options struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP gRPC collector address. Tracing is disabled when
	// it is empty.
	Endpoint string
	Insecure bool
}

// Setup configures tracing and returns a shutdown func that flushes pending
// spans. It never fails the caller: exporter errors disable tracing.
func Setup(ctx context.Context, opts Options) func(context.Context) error {
	noop := func(context.Context) error { return nil }

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if opts.Endpoint == "" {
		slog.Debug("Tracing disabled, no OTLP endpoint configured")
		return noop
	}

	exporterOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(opts.Endpoint)}
	if opts.Insecure {
		exporterOpts = append(exporterOpts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, exporterOpts...)
	if err != nil {
		slog.Error("Failed to create OTLP exporter", "error", err)
		return noop
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(opts.ServiceName),
		semconv.ServiceVersion(opts.ServiceVersion),
		semconv.DeploymentEnvironment(opts.Environment),
	))
	if err != nil {
		slog.Warn("Failed to build telemetry resource", "error", err)
	}

	provider := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(provider)

	slog.Info("Tracing enabled", "endpoint", opts.Endpoint, "service", opts.ServiceName)
	return provider.Shutdown
}
