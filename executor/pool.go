package executor

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/kbukum/datakit/record"
	"github.com/kbukum/datakit/stream"
)

// ThreadPool runs the generator on n worker goroutines. Workers complete in
// arbitrary order; results are rejoined in upstream order before being
// handed to the consumer, so ordering is indistinguishable from CurrentThread.
type ThreadPool struct {
	Workers int
}

// NewThreadPool returns a ThreadPool executor with n workers (minimum 1).
func NewThreadPool(n int) *ThreadPool {
	if n < 1 {
		n = 1
	}
	return &ThreadPool{Workers: n}
}

type poolTask struct {
	rec record.Record
	out chan poolResult
}

type poolResult struct {
	recs []record.Record
	err  error
}

func (p *ThreadPool) Execute(ctx context.Context, gen Generator, upstream stream.Iterator) stream.Iterator {
	runCtx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(runCtx)

	tasks := make(chan poolTask)
	// Each task gets its own result channel; queuing the channels in
	// dispatch order restores upstream order no matter which worker
	// finishes first. The queue depth bounds how far the pool runs ahead.
	order := make(chan chan poolResult, p.Workers)

	g.Go(func() error {
		defer close(tasks)
		defer close(order)
		for {
			in, ok, err := upstream.Next(gctx)
			if err != nil || !ok {
				if err != nil {
					out := make(chan poolResult, 1)
					out <- poolResult{err: err}
					select {
					case order <- out:
					case <-gctx.Done():
					}
				}
				return nil
			}
			out := make(chan poolResult, 1)
			select {
			case order <- out:
			case <-gctx.Done():
				return nil
			}
			select {
			case tasks <- poolTask{rec: in, out: out}:
			case <-gctx.Done():
				return nil
			}
		}
	})

	for i := 0; i < p.Workers; i++ {
		g.Go(func() error {
			for {
				select {
				case task, ok := <-tasks:
					if !ok {
						return nil
					}
					recs, err := gen.Fn(gctx, task.rec)
					task.out <- poolResult{recs: recs, err: err}
				case <-gctx.Done():
					return nil
				}
			}
		})
	}

	return &poolIter{
		order: order,
		close: func() error {
			cancel()
			_ = g.Wait()
			return upstream.Close()
		},
	}
}

type poolIter struct {
	order   <-chan chan poolResult
	pending []record.Record
	close   func() error
	closed  bool
}

func (it *poolIter) Next(ctx context.Context) (record.Record, bool, error) {
	for {
		if len(it.pending) > 0 {
			rec := it.pending[0]
			it.pending = it.pending[1:]
			return rec, true, nil
		}
		var out chan poolResult
		select {
		case o, ok := <-it.order:
			if !ok {
				return nil, false, nil
			}
			out = o
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
		select {
		case res := <-out:
			if res.err != nil {
				return nil, false, res.err
			}
			it.pending = res.recs
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
	}
}

func (it *poolIter) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	return it.close()
}
