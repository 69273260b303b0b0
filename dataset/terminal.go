package dataset

import (
	"context"

	"github.com/kbukum/datakit/errors"
	"github.com/kbukum/datakit/record"
	"github.com/kbukum/datakit/stream"
)

// List drains the dataset into a slice.
func (d *Dataset) List(ctx context.Context) ([]record.Record, error) {
	it := d.Iterate(ctx)
	recs, err := stream.Collect(ctx, it)
	if cerr := it.Close(); err == nil {
		err = cerr
	}
	return recs, err
}

// Collect drains the dataset and stacks everything into one record, the
// way Batch stacks a window. An empty dataset is an error.
func (d *Dataset) Collect(ctx context.Context, dtype record.DType) (record.Record, error) {
	recs, err := d.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, errors.EmptyDataset("collect")
	}
	return record.Stack(recs, dtype)
}

// First returns the dataset's first record. The result is memoized on the
// node: the upstream is pulled at most once per node lifetime, no matter
// how many of First, Shape, or Types are called. An empty dataset is an
// error.
func (d *Dataset) First(ctx context.Context) (record.Record, error) {
	d.firstOnce.Do(func() {
		it := d.Iterate(ctx)
		rec, ok, err := it.Next(ctx)
		if cerr := it.Close(); err == nil {
			err = cerr
		}
		d.first, d.firstOK, d.firstErr = rec, ok, err
	})
	if d.firstErr != nil {
		return nil, d.firstErr
	}
	if !d.firstOK {
		return nil, errors.EmptyDataset("first")
	}
	return d.first, nil
}

// At returns the record at index i, counting from zero.
func (d *Dataset) At(ctx context.Context, i int) (record.Record, error) {
	if i < 0 {
		panic(errors.Configuration("index must not be negative, got %d", i))
	}
	recs, err := d.Take(i + 1).List(ctx)
	if err != nil {
		return nil, err
	}
	if len(recs) <= i {
		return nil, errors.EmptyDataset("index").WithDetail("index", i)
	}
	return recs[i], nil
}

// ForEach drains the dataset, calling fn on every record. It stops at the
// first error, from the stream or from fn.
func (d *Dataset) ForEach(ctx context.Context, fn func(ctx context.Context, rec record.Record) error) error {
	it := d.Iterate(ctx)
	err := stream.Drain(ctx, it, fn)
	if cerr := it.Close(); err == nil {
		err = cerr
	}
	return err
}

// Shape infers the dataset's record shape from its first record,
// memoized via First.
func (d *Dataset) Shape(ctx context.Context) (record.Shape, error) {
	rec, err := d.First(ctx)
	if err != nil {
		return record.Shape{}, err
	}
	return record.ShapeOf(rec), nil
}

// Types infers the dataset's element types from its first record,
// memoized via First.
func (d *Dataset) Types(ctx context.Context) (record.Types, error) {
	rec, err := d.First(ctx)
	if err != nil {
		return record.Types{}, err
	}
	return record.TypesOf(rec), nil
}
