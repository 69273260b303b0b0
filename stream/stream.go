package stream

import (
	"context"

	"github.com/kbukum/datakit/record"
)

// Iterator provides pull-based sequential access to a stream of records.
type Iterator interface {
	// Next returns the next record. Returns (nil, false, nil) when exhausted.
	Next(ctx context.Context) (record.Record, bool, error)
	// Close releases any resources held by the iterator. Safe to call more
	// than once.
	Close() error
}

// Result carries a record or error through a channel between stages.
type Result struct {
	Rec record.Record
	OK  bool
	Err error
}

// FromSlice returns an iterator over the given records.
func FromSlice(recs []record.Record) Iterator {
	return &sliceIter{items: recs}
}

// Empty returns an iterator that is already exhausted.
func Empty() Iterator {
	return &sliceIter{}
}

// Fail returns an iterator whose first Next reports err.
func Fail(err error) Iterator {
	return &failIter{err: err}
}

// FromChannel returns an iterator reading Results from ch. The closer runs
// once on Close, typically canceling the producer and releasing upstreams.
func FromChannel(ch <-chan Result, closer func() error) Iterator {
	return &channelIter{ch: ch, closer: closer}
}

// WithCloser wraps an iterator so that extra runs after the iterator's own
// Close. Close is idempotent.
func WithCloser(it Iterator, extra func() error) Iterator {
	return &closerIter{inner: it, extra: extra}
}

// Collect pulls every record and returns them as a slice. The iterator is
// closed on every path, including errors.
func Collect(ctx context.Context, it Iterator) ([]record.Record, error) {
	defer it.Close()
	var out []record.Record
	for {
		rec, ok, err := it.Next(ctx)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, rec)
	}
}

// Drain pulls every record and calls fn for each. The iterator is closed on
// every path.
func Drain(ctx context.Context, it Iterator, fn func(context.Context, record.Record) error) error {
	defer it.Close()
	for {
		rec, ok, err := it.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(ctx, rec); err != nil {
			return err
		}
	}
}

// --- Iterator implementations ---

type sliceIter struct {
	items []record.Record
	index int
}

func (it *sliceIter) Next(_ context.Context) (record.Record, bool, error) {
	if it.index >= len(it.items) {
		return nil, false, nil
	}
	rec := it.items[it.index]
	it.index++
	return rec, true, nil
}

func (it *sliceIter) Close() error { return nil }

type failIter struct {
	err error
}

func (it *failIter) Next(_ context.Context) (record.Record, bool, error) {
	return nil, false, it.err
}

func (it *failIter) Close() error { return nil }

type channelIter struct {
	ch     <-chan Result
	closer func() error
	closed bool
}

func (it *channelIter) Next(ctx context.Context) (record.Record, bool, error) {
	select {
	case r, open := <-it.ch:
		if !open {
			return nil, false, nil
		}
		return r.Rec, r.OK, r.Err
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}

func (it *channelIter) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	if it.closer != nil {
		return it.closer()
	}
	return nil
}

type closerIter struct {
	inner  Iterator
	extra  func() error
	closed bool
}

func (it *closerIter) Next(ctx context.Context) (record.Record, bool, error) {
	return it.inner.Next(ctx)
}

func (it *closerIter) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	err := it.inner.Close()
	if it.extra != nil {
		if extraErr := it.extra(); err == nil {
			err = extraErr
		}
	}
	return err
}
