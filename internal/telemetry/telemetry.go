// Package telemetry wires the OpenTelemetry tracer and meter providers as
// the otel globals that internal/httpapi's otelhttp wrapper reports
// against. Traces are always written to stderr; metrics go to an OTLP
// collector when an endpoint is configured and to stdout otherwise.
package telemetry

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ServiceName is the resource attribute every span and metric this process
// emits is tagged with.
const ServiceName = "ltzfd"

// Providers bundles the two global providers so the caller can shut both
// down together on process exit.
type Providers struct {
	Tracer *sdktrace.TracerProvider
	Meter  *metric.MeterProvider
}

// Setup installs the tracer and meter providers as the otel globals.
// Metrics are shipped to otlpEndpoint over OTLP/HTTP when it is non-empty
// and written to stdout otherwise; traces are written to stderr in either
// case.
func Setup(ctx context.Context, otlpEndpoint string) (*Providers, error) {
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(ServiceName)))
	if err != nil {
		return nil, fmt.Errorf("telemetry: build resource: %w", err)
	}

	traceExporter, err := stdouttrace.New(stdouttrace.WithWriter(os.Stderr))
	if err != nil {
		return nil, fmt.Errorf("telemetry: build trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	var metricReader metric.Reader
	if otlpEndpoint != "" {
		metricExporter, err := otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpoint(otlpEndpoint), otlpmetrichttp.WithInsecure())
		if err != nil {
			return nil, fmt.Errorf("telemetry: build otlp metric exporter: %w", err)
		}
		metricReader = metric.NewPeriodicReader(metricExporter, metric.WithInterval(15*time.Second))
	} else {
		metricExporter, err := stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("telemetry: build stdout metric exporter: %w", err)
		}
		metricReader = metric.NewPeriodicReader(metricExporter, metric.WithInterval(15*time.Second))
	}
	mp := metric.NewMeterProvider(
		metric.WithReader(metricReader),
		metric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	return &Providers{Tracer: tp, Meter: mp}, nil
}

// Shutdown flushes and stops both providers, giving each up to 5s.
func (p *Providers) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.Tracer.Shutdown(ctx); err != nil {
		return fmt.Errorf("telemetry: shutdown tracer provider: %w", err)
	}
	if err := p.Meter.Shutdown(ctx); err != nil {
		return fmt.Errorf("telemetry: shutdown meter provider: %w", err)
	}
	return nil
}
