package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/datakit/logger"
	"github.com/kbukum/datakit/version"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: version.GetShortVersion(),
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds OpenTelemetry instruments for dataset pipeline observability.
type Metrics struct {
	recordsTotal      metric.Int64Counter
	iterationsTotal   metric.Int64Counter
	iterationsActive  metric.Int64UpDownCounter
	iterationDuration metric.Float64Histogram
	errorTotal        metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	recordsTotal, err := meter.Int64Counter("dataset.records.total",
		metric.WithDescription("Total records emitted by iterations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dataset.records.total counter: %w", err)
	}

	iterationsTotal, err := meter.Int64Counter("dataset.iterations.total",
		metric.WithDescription("Total dataset iterations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dataset.iterations.total counter: %w", err)
	}

	iterationsActive, err := meter.Int64UpDownCounter("dataset.iterations.active",
		metric.WithDescription("Number of currently open iterations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dataset.iterations.active gauge: %w", err)
	}

	iterationDuration, err := meter.Float64Histogram("dataset.iteration.duration",
		metric.WithDescription("Duration of dataset iterations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dataset.iteration.duration histogram: %w", err)
	}

	errorTotal, err := meter.Int64Counter("dataset.error.total",
		metric.WithDescription("Total iteration errors by dataset and code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dataset.error.total counter: %w", err)
	}

	return &Metrics{
		recordsTotal:      recordsTotal,
		iterationsTotal:   iterationsTotal,
		iterationsActive:  iterationsActive,
		iterationDuration: iterationDuration,
		errorTotal:        errorTotal,
	}, nil
}

// RecordIterationStart increments the open iteration count.
func (m *Metrics) RecordIterationStart(ctx context.Context) {
	m.iterationsActive.Add(ctx, 1)
}

// RecordIterationEnd closes out an iteration: decrements the active count
// and records the emitted record count and duration.
func (m *Metrics) RecordIterationEnd(ctx context.Context, dataset, status string, records int64, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("dataset", dataset),
		attribute.String("status", status),
	)
	m.iterationsActive.Add(ctx, -1)
	m.iterationsTotal.Add(ctx, 1, attrs)
	m.recordsTotal.Add(ctx, records, metric.WithAttributes(
		attribute.String("dataset", dataset),
	))
	m.iterationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("dataset", dataset),
	))
}

// RecordError records an iteration error by dataset and error code.
func (m *Metrics) RecordError(ctx context.Context, dataset, code string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("dataset", dataset),
		attribute.String("code", code),
	))
}
