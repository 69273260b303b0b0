// Package observability provides OpenTelemetry tracing and metrics
// integration for dataset pipelines.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("trainer"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanDatasetIterate)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("trainer"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("trainer"))
//	metrics.RecordIterationEnd(ctx, "train", "ok", 1024, duration)
//
// dataset.Instrument wires both into an operator graph without touching
// the pipeline code itself.
package observability
