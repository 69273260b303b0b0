package dataset

import (
	"context"

	"github.com/kbukum/datakit/errors"
	"github.com/kbukum/datakit/executor"
	"github.com/kbukum/datakit/record"
	"github.com/kbukum/datakit/stream"
)

// MapFunc transforms one record into one record.
type MapFunc func(ctx context.Context, rec record.Record) (record.Record, error)

// StarMapFunc receives an unpacked record: Sequence elements positionally,
// KeyedMap fields by name. Exactly one of pos and named is non-nil.
type StarMapFunc func(ctx context.Context, pos []record.Record, named record.KeyedMap) (record.Record, error)

// FlatMapFunc expands one record into a lazy sub-stream of records.
type FlatMapFunc func(ctx context.Context, rec record.Record) (stream.Iterator, error)

// Predicate decides whether a record passes a filter.
type Predicate func(ctx context.Context, rec record.Record) (bool, error)

// generated builds a node whose stage runs a generator under the resolved
// executor. Process-backed configs require a registered generator; asking
// for one with an anonymous closure is rejected at construction.
func (d *Dataset) generated(kind string, gen executor.Generator, opts []executor.Option) *Dataset {
	cfg := mustConfig(opts)
	if cfg.RequiresRegistered() && gen.Name == "" {
		panic(errors.Configuration("%s: process executors require a registered generator, see executor.Register", kind))
	}
	node := &Dataset{kind: kind, upstream: []*Dataset{d}, cfg: cfg}
	node.open = func(ctx context.Context) stream.Iterator {
		return node.resolveExecutor().Execute(ctx, gen, d.Iterate(ctx))
	}
	return node
}

// Map applies fn to every record, one in one out.
func (d *Dataset) Map(fn MapFunc, opts ...executor.Option) *Dataset {
	return d.generated("map", executor.Generate(func(ctx context.Context, rec record.Record) ([]record.Record, error) {
		out, err := fn(ctx, rec)
		if err != nil {
			return nil, err
		}
		return []record.Record{out}, nil
	}), opts)
}

// StarMap applies fn to every record with the record unpacked: a Sequence
// becomes positional arguments, a KeyedMap becomes named arguments. Any
// other record kind is an error.
func (d *Dataset) StarMap(fn StarMapFunc, opts ...executor.Option) *Dataset {
	return d.generated("starmap", executor.Generate(func(ctx context.Context, rec record.Record) ([]record.Record, error) {
		var out record.Record
		var err error
		switch r := rec.(type) {
		case record.Sequence:
			out, err = fn(ctx, r, nil)
		case record.KeyedMap:
			out, err = fn(ctx, nil, r)
		default:
			return nil, errors.Configuration("starmap requires sequence or keyed-map records, got %s", rec.Kind())
		}
		if err != nil {
			return nil, err
		}
		return []record.Record{out}, nil
	}), opts)
}

// Filter keeps the records pred accepts.
func (d *Dataset) Filter(pred Predicate, opts ...executor.Option) *Dataset {
	return d.generated("filter", executor.Generate(func(ctx context.Context, rec record.Record) ([]record.Record, error) {
		keep, err := pred(ctx, rec)
		if err != nil {
			return nil, err
		}
		if !keep {
			return nil, nil
		}
		return []record.Record{rec}, nil
	}), opts)
}

// FlatMap expands every record into a sub-stream; each record's expansion
// is emitted in full before the next upstream record is touched. Under
// the synchronous and background executors the sub-streams are consumed
// lazily, so an unbounded expansion is fine; pool and process executors
// materialize each expansion to restore upstream order.
func (d *Dataset) FlatMap(fn FlatMapFunc, opts ...executor.Option) *Dataset {
	gen := executor.Generate(func(ctx context.Context, rec record.Record) ([]record.Record, error) {
		sub, err := fn(ctx, rec)
		if err != nil {
			return nil, err
		}
		defer sub.Close()
		return stream.Collect(ctx, sub)
	})
	node := d.generated("flatmap", gen, opts)
	inner := node.open
	node.open = func(ctx context.Context) stream.Iterator {
		switch ex := node.resolveExecutor().(type) {
		case executor.CurrentThread:
			return &flatIter{upstream: d.Iterate(ctx), fn: fn}
		case *executor.Background:
			// One producer goroutine keeps order by itself, so the
			// sub-streams flow through the prefetch channel unmaterialized.
			return ex.Execute(ctx, identity, &flatIter{upstream: d.Iterate(ctx), fn: fn})
		default:
			return inner(ctx)
		}
	}
	return node
}

// Apply runs a registered generator as a stage. This is the entry point
// for process-backed stages: register the generator in every binary that
// may host a worker, then Apply it with WithProcesses.
func (d *Dataset) Apply(gen executor.Generator, opts ...executor.Option) *Dataset {
	return d.generated("apply", gen, opts)
}

// Select narrows every KeyedMap record to the given fields.
func (d *Dataset) Select(keys ...string) *Dataset {
	return d.Map(func(_ context.Context, rec record.Record) (record.Record, error) {
		m, ok := rec.(record.KeyedMap)
		if !ok {
			return nil, errors.Configuration("select requires keyed-map records, got %s", rec.Kind())
		}
		return m.Select(keys...)
	})
}

// SelectTuple projects every KeyedMap record onto a Sequence holding the
// given fields in the given order.
func (d *Dataset) SelectTuple(keys ...string) *Dataset {
	return d.Map(func(_ context.Context, rec record.Record) (record.Record, error) {
		m, ok := rec.(record.KeyedMap)
		if !ok {
			return nil, errors.Configuration("select_tuple requires keyed-map records, got %s", rec.Kind())
		}
		return m.SelectTuple(keys...)
	})
}

// flatIter is the lazy flat-map path: one sub-stream open at a time.
type flatIter struct {
	upstream stream.Iterator
	fn       FlatMapFunc
	sub      stream.Iterator
	closed   bool
}

func (it *flatIter) Next(ctx context.Context) (record.Record, bool, error) {
	for {
		if it.sub != nil {
			rec, ok, err := it.sub.Next(ctx)
			if err != nil {
				return nil, false, err
			}
			if ok {
				return rec, true, nil
			}
			if err := it.sub.Close(); err != nil {
				return nil, false, err
			}
			it.sub = nil
		}
		rec, ok, err := it.upstream.Next(ctx)
		if err != nil || !ok {
			return nil, false, err
		}
		sub, err := it.fn(ctx, rec)
		if err != nil {
			return nil, false, err
		}
		it.sub = sub
	}
}

func (it *flatIter) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	if it.sub != nil {
		if err := it.sub.Close(); err != nil {
			it.upstream.Close()
			return err
		}
	}
	return it.upstream.Close()
}
