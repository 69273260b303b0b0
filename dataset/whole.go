package dataset

import (
	"context"

	"github.com/kbukum/datakit/errors"
	"github.com/kbukum/datakit/executor"
	"github.com/kbukum/datakit/record"
	"github.com/kbukum/datakit/stream"
)

// TransformFunc rewrites a whole stream rather than single records. The
// returned iterator owns the upstream iterator and may hold arbitrary
// state across records; closing it must not be assumed to close the
// upstream, the stage handles that.
type TransformFunc func(ctx context.Context, upstream stream.Iterator) stream.Iterator

// Transform applies a whole-stream rewrite. Transform stages carry
// per-iteration state, so they run on the calling goroutine or, with
// WithBackground(true), on one dedicated goroutine; pool and process
// executors are rejected at construction, and an inherited pool choice
// degrades to the calling goroutine.
func (d *Dataset) Transform(fn TransformFunc, opts ...executor.Option) *Dataset {
	cfg := mustConfig(opts)
	if cfg.PoolRequested() {
		panic(errors.Configuration("transform stages run on the current or a background thread, not a worker pool"))
	}
	node := &Dataset{kind: "transform", upstream: []*Dataset{d}, cfg: cfg}
	node.open = func(ctx context.Context) stream.Iterator {
		up := d.Iterate(ctx)
		out := stream.WithCloser(fn(ctx, up), up.Close)
		if bg, ok := node.resolveExecutor().(*executor.Background); ok {
			return bg.Execute(ctx, identity, out)
		}
		return out
	}
	return node
}

// identity passes records through unchanged; used to put a prefetching
// goroutine in front of an already-built iterator.
var identity = executor.Generate(func(_ context.Context, rec record.Record) ([]record.Record, error) {
	return []record.Record{rec}, nil
})

// Skip drops the first n records.
func (d *Dataset) Skip(n int) *Dataset {
	if n < 0 {
		panic(errors.Configuration("skip count must not be negative, got %d", n))
	}
	node := d.Transform(func(ctx context.Context, up stream.Iterator) stream.Iterator {
		return &skipIter{upstream: up, remaining: n}
	})
	node.kind = "skip"
	return node
}

type skipIter struct {
	upstream  stream.Iterator
	remaining int
}

func (it *skipIter) Next(ctx context.Context) (record.Record, bool, error) {
	for it.remaining > 0 {
		_, ok, err := it.upstream.Next(ctx)
		if err != nil || !ok {
			return nil, false, err
		}
		it.remaining--
	}
	return it.upstream.Next(ctx)
}

func (it *skipIter) Close() error { return nil }
