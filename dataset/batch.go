package dataset

import (
	"context"

	"github.com/kbukum/datakit/errors"
	"github.com/kbukum/datakit/record"
	"github.com/kbukum/datakit/stream"
)

// Batch groups consecutive records into stacked batches of exactly size
// records; a trailing partial window is dropped. Numeric scalars in mixed
// batches are promoted to float32.
func (d *Dataset) Batch(size int) *Dataset {
	return d.BatchDType(size, record.DTypeUnknown)
}

// BatchDType is Batch with an explicit dtype for promoting mixed numeric
// scalars.
func (d *Dataset) BatchDType(size int, dtype record.DType) *Dataset {
	if size < 1 {
		panic(errors.Configuration("batch size must be positive, got %d", size))
	}
	return newNode("batch", []*Dataset{d}, func(ctx context.Context) stream.Iterator {
		return &batchIter{upstream: d.Iterate(ctx), size: size, dtype: dtype}
	})
}

type batchIter struct {
	upstream stream.Iterator
	size     int
	dtype    record.DType
}

func (it *batchIter) Next(ctx context.Context) (record.Record, bool, error) {
	window := make([]record.Record, 0, it.size)
	for len(window) < it.size {
		rec, ok, err := it.upstream.Next(ctx)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			// Partial trailing window: dropped.
			return nil, false, nil
		}
		window = append(window, rec)
	}
	batch, err := record.Stack(window, it.dtype)
	if err != nil {
		return nil, false, err
	}
	return batch, true, nil
}

func (it *batchIter) Close() error { return it.upstream.Close() }
