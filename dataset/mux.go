package dataset

import (
	"context"

	"github.com/kbukum/datakit/errors"
	"github.com/kbukum/datakit/record"
	"github.com/kbukum/datakit/stream"
)

// Concat drains each upstream to exhaustion, in order. Upstreams are
// opened lazily, one at a time, and closed as soon as they are exhausted.
//
// Like every mux node, Concat cuts the executor inheritance chain:
// stages downstream of it default to the calling goroutine unless they
// carry their own executor hints.
func Concat(upstreams ...*Dataset) *Dataset {
	if len(upstreams) == 0 {
		panic(errors.Configuration("concat requires at least one upstream dataset"))
	}
	node := newNode("concat", upstreams, func(ctx context.Context) stream.Iterator {
		return &concatIter{ctx: ctx, pending: upstreams}
	})
	node.mux = true
	return node
}

type concatIter struct {
	ctx     context.Context
	pending []*Dataset
	current stream.Iterator
	closed  bool
}

func (it *concatIter) Next(ctx context.Context) (record.Record, bool, error) {
	for {
		if it.current == nil {
			if len(it.pending) == 0 {
				return nil, false, nil
			}
			it.current = it.pending[0].Iterate(it.ctx)
			it.pending = it.pending[1:]
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
	}
}

func (it *concatIter) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	if it.current != nil {
		return it.current.Close()
	}
	return nil
}

// RoundRobin interleaves upstreams one record at a time, in order. An
// exhausted upstream drops out of the rotation; the rest keep their
// relative order until all are drained.
func RoundRobin(upstreams ...*Dataset) *Dataset {
	if len(upstreams) == 0 {
		panic(errors.Configuration("round-robin requires at least one upstream dataset"))
	}
	node := newNode("round-robin", upstreams, func(ctx context.Context) stream.Iterator {
		active := make([]stream.Iterator, len(upstreams))
		for i, up := range upstreams {
			active[i] = up.Iterate(ctx)
		}
		return &roundRobinIter{active: active}
	})
	node.mux = true
	return node
}

type roundRobinIter struct {
	active []stream.Iterator
	next   int
	closed bool
}

func (it *roundRobinIter) Next(ctx context.Context) (record.Record, bool, error) {
	for len(it.active) > 0 {
		if it.next >= len(it.active) {
			it.next = 0
		}
		rec, ok, err := it.active[it.next].Next(ctx)
		if err != nil {
			return nil, false, err
		}
		if ok {
			it.next++
			return rec, true, nil
		}
		if err := it.active[it.next].Close(); err != nil {
			it.active = append(it.active[:it.next], it.active[it.next+1:]...)
			return nil, false, err
		}
		it.active = append(it.active[:it.next], it.active[it.next+1:]...)
	}
	return nil, false, nil
}

func (it *roundRobinIter) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	var first error
	for _, sub := range it.active {
		if err := sub.Close(); err != nil && first == nil {
			first = err
		}
	}
	it.active = nil
	return first
}
