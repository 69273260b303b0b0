package dataset

import (
	"context"
	"time"

	"github.com/kbukum/datakit/logger"
	"github.com/kbukum/datakit/stream"
)

// Cache materializes the dataset once, immediately, and returns a node
// that replays the captured records on every pass. Upstream side effects
// run exactly once, here; later iterations never touch the upstream.
func (d *Dataset) Cache(ctx context.Context) (*Dataset, error) {
	start := time.Now()
	it := d.Iterate(ctx)
	recs, err := stream.Collect(ctx, it)
	if cerr := it.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}
	logger.WithComponent("dataset").Debug("cached dataset", logger.Fields(
		logger.FieldRecords, len(recs),
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	return newNode("cache", []*Dataset{d}, func(context.Context) stream.Iterator {
		return stream.FromSlice(recs)
	}), nil
}
