package executor

import (
	"context"

	"github.com/kbukum/datakit/stream"
)

// DefaultQueueCapacity bounds the prefetch window of a Background executor
// when no capacity is configured.
const DefaultQueueCapacity = 16

// Background runs the generator on one dedicated goroutine, handing records
// to the consumer through a bounded channel. The producer runs at most
// Capacity records ahead of the consumer.
type Background struct {
	Capacity int
}

// NewBackground returns a Background executor. capacity <= 0 selects
// DefaultQueueCapacity.
func NewBackground(capacity int) *Background {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &Background{Capacity: capacity}
}

func (b *Background) Execute(ctx context.Context, gen Generator, upstream stream.Iterator) stream.Iterator {
	runCtx, cancel := context.WithCancel(ctx)
	ch := make(chan stream.Result, b.Capacity)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer close(ch)
		for {
			in, ok, err := upstream.Next(runCtx)
			if err != nil {
				select {
				case ch <- stream.Result{Err: err}:
				case <-runCtx.Done():
				}
				return
			}
			if !ok {
				return
			}
			out, err := gen.Fn(runCtx, in)
			if err != nil {
				select {
				case ch <- stream.Result{Err: err}:
				case <-runCtx.Done():
				}
				return
			}
			for _, rec := range out {
				select {
				case ch <- stream.Result{Rec: rec, OK: true}:
				case <-runCtx.Done():
					return
				}
			}
		}
	}()

	return stream.FromChannel(ch, func() error {
		cancel()
		<-done // the producer no longer touches upstream
		return upstream.Close()
	})
}
