package executor

import (
	"context"

	"github.com/kbukum/datakit/record"
	"github.com/kbukum/datakit/stream"
)

// CurrentThread runs the generator synchronously in the consumer's control
// flow. It is the default executor.
type CurrentThread struct{}

func (CurrentThread) Execute(_ context.Context, gen Generator, upstream stream.Iterator) stream.Iterator {
	return &genIter{gen: gen, upstream: upstream}
}

// genIter applies a generator record by record, emitting each output before
// pulling the next input.
type genIter struct {
	gen      Generator
	upstream stream.Iterator
	pending  []record.Record
	closed   bool
}

func (it *genIter) Next(ctx context.Context) (record.Record, bool, error) {
	for {
		if len(it.pending) > 0 {
			rec := it.pending[0]
			it.pending = it.pending[1:]
			return rec, true, nil
		}
		in, ok, err := it.upstream.Next(ctx)
		if err != nil || !ok {
			return nil, false, err
		}
		out, err := it.gen.Fn(ctx, in)
		if err != nil {
			return nil, false, err
		}
		it.pending = out
	}
}

func (it *genIter) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	return it.upstream.Close()
}
