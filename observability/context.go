package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// IterationContext holds observability context for one dataset iteration.
type IterationContext struct {
	Dataset   string
	StartTime time.Time
	Metrics   *Metrics

	records int64
}

// NewIterationContext creates a new iteration context.
// If metrics is nil, metric recording is silently skipped.
func NewIterationContext(dataset string, metrics *Metrics) *IterationContext {
	return &IterationContext{
		Dataset:   dataset,
		StartTime: time.Now(),
		Metrics:   metrics,
	}
}

// iterationContextKey is the context key for IterationContext.
type iterationContextKey struct{}

// WithIterationContext stores an IterationContext in the context.
func WithIterationContext(ctx context.Context, ic *IterationContext) context.Context {
	return context.WithValue(ctx, iterationContextKey{}, ic)
}

// IterationFromContext retrieves the IterationContext from context, or nil.
func IterationFromContext(ctx context.Context) *IterationContext {
	if ic, ok := ctx.Value(iterationContextKey{}).(*IterationContext); ok {
		return ic
	}
	return nil
}

// StartSpanForIteration starts a traced span and records the iteration
// start metric.
func (ic *IterationContext) StartSpanForIteration(ctx context.Context, spanName string) (context.Context, trace.Span) {
	ctx, span := StartSpan(ctx, spanName)
	span.SetAttributes(attribute.String(AttrDataset, ic.Dataset))

	if ic.Metrics != nil {
		ic.Metrics.RecordIterationStart(ctx)
	}
	return ctx, span
}

// CountRecord accounts for one emitted record.
func (ic *IterationContext) CountRecord() { ic.records++ }

// Records returns the number of records counted so far.
func (ic *IterationContext) Records() int64 { return ic.records }

// EndIteration ends the span and records iteration-end metrics.
func (ic *IterationContext) EndIteration(ctx context.Context, span trace.Span, status string, err error) {
	duration := time.Since(ic.StartTime)

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
	}

	span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrRecords, ic.records),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	span.End()

	if ic.Metrics != nil {
		ic.Metrics.RecordIterationEnd(ctx, ic.Dataset, status, ic.records, duration)
	}
}

// Duration returns the elapsed time since the iteration started.
func (ic *IterationContext) Duration() time.Duration {
	return time.Since(ic.StartTime)
}
