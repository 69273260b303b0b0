package dataset

import (
	"context"

	"github.com/kbukum/datakit/errors"
	"github.com/kbukum/datakit/observability"
	"github.com/kbukum/datakit/record"
	"github.com/kbukum/datakit/stream"
	"go.opentelemetry.io/otel/trace"
)

// Instrument wraps d so that every pass runs under an OpenTelemetry span
// carrying the record count, duration, and outcome, and feeds the given
// metric instruments. A nil metrics is allowed; only the span is emitted
// then. The wrapped node is transparent to the operator algebra.
func Instrument(d *Dataset, name string, metrics *observability.Metrics) *Dataset {
	node := newNode("instrument("+name+")", []*Dataset{d}, nil)
	node.open = func(ctx context.Context) stream.Iterator {
		ic := observability.NewIterationContext(name, metrics)
		ctx = observability.WithIterationContext(ctx, ic)
		spanCtx, span := ic.StartSpanForIteration(ctx, observability.SpanDatasetIterate)
		return &instrumentIter{
			upstream: d.Iterate(spanCtx),
			ic:       ic,
			ctx:      spanCtx,
			span:     span,
			name:     name,
		}
	}
	return node
}

type instrumentIter struct {
	upstream stream.Iterator
	ic       *observability.IterationContext
	ctx      context.Context
	span     trace.Span
	name     string
	err      error
	closed   bool
}

func (it *instrumentIter) Next(ctx context.Context) (record.Record, bool, error) {
	rec, ok, err := it.upstream.Next(ctx)
	if err != nil {
		it.err = err
		return nil, false, err
	}
	if ok {
		it.ic.CountRecord()
	}
	return rec, ok, nil
}

func (it *instrumentIter) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	cerr := it.upstream.Close()
	err := it.err
	if err == nil {
		err = cerr
	}
	status := "ok"
	if err != nil {
		status = "error"
		if it.ic.Metrics != nil {
			it.ic.Metrics.RecordError(it.ctx, it.name, string(errors.CodeOf(err)))
		}
	}
	it.ic.EndIteration(it.ctx, it.span, status, err)
	return cerr
}
