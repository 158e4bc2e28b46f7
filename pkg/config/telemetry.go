package config

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/openpitwall/telemetry-compare-go/version"
)

// Telemetry bundles the configured otel providers so the server can shut
// them down in one place.
type Telemetry struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
}

// SetupTelemetry wires stdout exporters for traces and metrics and starts
// the runtime instrumentation.
func SetupTelemetry(ctx context.Context) (*Telemetry, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName("telemetry-compare"),
			semconv.ServiceVersion(version.Version),
		))
	if err != nil {
		return nil, fmt.Errorf("creating otel resource: %w", err)
	}

	traceExporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	metricExporter, err := stdoutmetric.New()
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter,
			sdkmetric.WithInterval(time.Minute))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	if err := runtime.Start(); err != nil {
		return nil, fmt.Errorf("starting runtime instrumentation: %w", err)
	}

	return &Telemetry{tracerProvider: tp, meterProvider: mp}, nil
}

func (t *Telemetry) Shutdown(ctx context.Context) {
	if t == nil {
		return
	}
	_ = t.tracerProvider.Shutdown(ctx)
	_ = t.meterProvider.Shutdown(ctx)
}
