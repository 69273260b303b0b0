package dataset

import (
	"context"

	"github.com/kbukum/datakit/errors"
	"github.com/kbukum/datakit/record"
	"github.com/kbukum/datakit/stream"
)

// Take keeps the first n records. Taking past the end of the upstream is
// not an error; the result is simply shorter.
func (d *Dataset) Take(n int) *Dataset {
	if n < 0 {
		panic(errors.Configuration("take count must not be negative, got %d", n))
	}
	node := d.Slice(0, n, 1)
	node.kind = "take"
	return node
}

// Slice keeps records with index start, start+step, ... below stop. A
// negative stop means unbounded.
func (d *Dataset) Slice(start, stop, step int) *Dataset {
	if start < 0 {
		panic(errors.Configuration("slice start must not be negative, got %d", start))
	}
	if step < 1 {
		panic(errors.Configuration("slice step must be positive, got %d", step))
	}
	return newNode("slice", []*Dataset{d}, func(ctx context.Context) stream.Iterator {
		return &sliceIter{upstream: d.Iterate(ctx), start: start, stop: stop, step: step}
	})
}

type sliceIter struct {
	upstream stream.Iterator
	start    int
	stop     int
	step     int
	index    int
}

func (it *sliceIter) Next(ctx context.Context) (record.Record, bool, error) {
	for {
		if it.stop >= 0 && it.index >= it.stop {
			return nil, false, nil
		}
		rec, ok, err := it.upstream.Next(ctx)
		if err != nil || !ok {
			return nil, false, err
		}
		i := it.index
		it.index++
		if i >= it.start && (i-it.start)%it.step == 0 {
			return rec, true, nil
		}
	}
}

func (it *sliceIter) Close() error { return it.upstream.Close() }

// Repeat replays the upstream the given number of times; a negative count
// repeats forever. Each pass re-opens the upstream, so stateful upstreams
// such as Shuffle advance between passes.
func (d *Dataset) Repeat(times int) *Dataset {
	return newNode("repeat", []*Dataset{d}, func(ctx context.Context) stream.Iterator {
		return &repeatIter{ctx: ctx, source: d, remaining: times}
	})
}

type repeatIter struct {
	ctx       context.Context
	source    *Dataset
	current   stream.Iterator
	remaining int
	closed    bool
}

func (it *repeatIter) Next(ctx context.Context) (record.Record, bool, error) {
	for {
		if it.remaining == 0 {
			return nil, false, nil
		}
		if it.current == nil {
			it.current = it.source.Iterate(it.ctx)
		}
		rec, ok, err := it.current.Next(ctx)
		if err != nil {
			return nil, false, err
		}
		if ok {
			return rec, true, nil
		}
		if err := it.current.Close(); err != nil {
			it.current = nil
			return nil, false, err
		}
		it.current = nil
		if it.remaining > 0 {
			it.remaining--
		}
	}
}

func (it *repeatIter) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	if it.current != nil {
		return it.current.Close()
	}
	return nil
}

// Prepend emits rec before the upstream's records.
func (d *Dataset) Prepend(rec record.Record) *Dataset {
	return newNode("prepend", []*Dataset{d}, func(ctx context.Context) stream.Iterator {
		return &prependIter{upstream: d.Iterate(ctx), head: rec}
	})
}

type prependIter struct {
	upstream stream.Iterator
	head     record.Record
	emitted  bool
}

func (it *prependIter) Next(ctx context.Context) (record.Record, bool, error) {
	if !it.emitted {
		it.emitted = true
		return it.head, true, nil
	}
	return it.upstream.Next(ctx)
}

func (it *prependIter) Close() error { return it.upstream.Close() }
