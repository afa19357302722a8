// Package observability wires structured logging, OpenTelemetry tracing,
// and Prometheus-exported metrics for rangekit.
//
// Tracing and metrics default to no-op providers with zero overhead;
// they are only stood up when the corresponding Config fields enable
// them, so library consumers and short-lived CLI runs pay nothing.
package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

const (
	tracerName = "rangekit"
	meterName  = "rangekit"
)

// Config controls which observability surfaces are stood up.
type Config struct {
	// ServiceName is attached to logs, traces, and metric resources.
	ServiceName string

	// Environment tags telemetry with a deployment environment; empty
	// omits the attribute.
	Environment string

	// LogLevel is the minimum level for emitted log records.
	LogLevel slog.Level

	// LogJSON selects JSON log output instead of logfmt text.
	LogJSON bool

	// LogWriter receives log output. Defaults to os.Stderr.
	LogWriter io.Writer

	// TraceWriter receives exported spans. A nil writer disables
	// tracing entirely (no-op tracer).
	TraceWriter io.Writer

	// MetricsEnabled stands up a Prometheus registry and meter
	// provider. When false the meter is a no-op.
	MetricsEnabled bool
}

// Providers holds the initialized observability handles.
type Providers struct {
	// Tracer is the named tracer for creating spans.
	Tracer trace.Tracer

	// Meter is the named meter for creating instruments.
	Meter metric.Meter

	// Logger is the context-aware structured logger.
	Logger *slog.Logger

	// MetricsHandler serves the Prometheus scrape endpoint; nil when
	// metrics are disabled.
	MetricsHandler http.Handler

	// Shutdown flushes pending telemetry. Must be called before
	// process exit when tracing or metrics are enabled.
	Shutdown func(ctx context.Context) error
}

// Init initializes logging, tracing, and metrics per the config.
func Init(cfg Config) (Providers, error) {
	ctx := context.Background()

	res, err := buildResource(ctx, cfg)
	if err != nil {
		return Providers{}, fmt.Errorf("build resource: %w", err)
	}

	tracer, tpShutdown, err := buildTracer(cfg, res)
	if err != nil {
		return Providers{}, fmt.Errorf("build tracer: %w", err)
	}

	meter, handler, mpShutdown, err := buildMeter(cfg, res)
	if err != nil {
		shutdownErr := tpShutdown(ctx)

		return Providers{}, errors.Join(fmt.Errorf("build meter: %w", err), shutdownErr)
	}

	shutdown := func(shutdownCtx context.Context) error {
		return errors.Join(tpShutdown(shutdownCtx), mpShutdown(shutdownCtx))
	}

	return Providers{
		Tracer:         tracer,
		Meter:          meter,
		Logger:         buildLogger(cfg),
		MetricsHandler: handler,
		Shutdown:       shutdown,
	}, nil
}

// noopShutdown is the shutdown function for no-op providers.
func noopShutdown(context.Context) error {
	return nil
}

func buildResource(ctx context.Context, cfg Config) (*resource.Resource, error) {
	attrs := []resource.Option{
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	}

	if cfg.Environment != "" {
		attrs = append(attrs, resource.WithAttributes(semconv.DeploymentEnvironment(cfg.Environment)))
	}

	return resource.New(ctx, attrs...)
}

func buildTracer(cfg Config, res *resource.Resource) (trace.Tracer, func(context.Context) error, error) {
	if cfg.TraceWriter == nil {
		return nooptrace.NewTracerProvider().Tracer(tracerName), noopShutdown, nil
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(cfg.TraceWriter))
	if err != nil {
		return nil, nil, fmt.Errorf("create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	return tp.Tracer(tracerName), tp.Shutdown, nil
}

func buildMeter(cfg Config, res *resource.Resource) (metric.Meter, http.Handler, func(context.Context) error, error) {
	if !cfg.MetricsEnabled {
		return noopmetric.NewMeterProvider().Meter(meterName), nil, noopShutdown, nil
	}

	registry := prometheus.NewRegistry()

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return mp.Meter(meterName), handler, mp.Shutdown, nil
}

func buildLogger(cfg Config) *slog.Logger {
	writer := cfg.LogWriter
	if writer == nil {
		writer = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var inner slog.Handler
	if cfg.LogJSON {
		inner = slog.NewJSONHandler(writer, opts)
	} else {
		inner = slog.NewTextHandler(writer, opts)
	}

	// Service attrs go on the inner handler so they stay top-level
	// across WithGroup.
	inner = inner.WithAttrs(serviceAttrs(cfg.ServiceName, cfg.Environment))

	return slog.New(WithSpanContext(inner))
}
