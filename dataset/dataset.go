package dataset

import (
	"context"
	"sync"

	"github.com/kbukum/datakit/errors"
	"github.com/kbukum/datakit/executor"
	"github.com/kbukum/datakit/record"
	"github.com/kbukum/datakit/stream"
)

// Dataset is one node of a lazy operator graph over record streams.
// Construction is cheap and side-effect free; no upstream work happens
// until Iterate is called, and every Iterate opens a fresh pass over the
// graph. Operators never mutate their receiver, so a node can be shared
// by any number of downstream branches.
//
// A single iteration (one Iterator) must be consumed by one goroutine;
// distinct iterations of the same node are independent except for
// Shuffle, whose random state advances across passes.
type Dataset struct {
	kind     string
	open     func(ctx context.Context) stream.Iterator
	upstream []*Dataset
	cfg      executor.Config

	// mux nodes cut the executor inheritance chain.
	mux bool

	firstOnce sync.Once
	first     record.Record
	firstOK   bool
	firstErr  error
}

// newNode builds a structural node with no executor hints of its own.
func newNode(kind string, upstream []*Dataset, open func(ctx context.Context) stream.Iterator) *Dataset {
	return &Dataset{kind: kind, open: open, upstream: upstream}
}

// String names the node by its operator, e.g. "map" or "batch(32)".
func (d *Dataset) String() string { return d.kind }

// Upstream returns the node's direct inputs, left to right.
func (d *Dataset) Upstream() []*Dataset { return d.upstream }

// Iterate opens a new pass over the dataset. The returned iterator must be
// closed, whether or not it was drained; closing releases every upstream
// resource the pass acquired.
func (d *Dataset) Iterate(ctx context.Context) stream.Iterator {
	return d.open(ctx)
}

// resolveExecutor picks the executor this node's stage runs on. The node's
// own config wins; otherwise the choice is inherited from the left-most
// upstream, stopping at mux boundaries. Config conflicts are rejected at
// construction, so resolution cannot fail here.
func (d *Dataset) resolveExecutor() executor.Executor {
	exec, err := d.cfg.Resolve(d.inherited)
	if err != nil {
		panic(err)
	}
	return exec
}

// inherited answers a downstream node's inheritance query.
func (d *Dataset) inherited() executor.Executor {
	if d.mux {
		return executor.CurrentThread{}
	}
	if len(d.upstream) == 0 {
		return nil
	}
	return d.upstream[0].resolveExecutor()
}

// mustConfig folds executor options and rejects misuse immediately.
func mustConfig(opts []executor.Option) executor.Config {
	cfg := executor.NewConfig(opts...)
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}

// FromRecords builds a dataset over a fixed slice of records. The slice is
// not copied; callers must not mutate it afterwards.
func FromRecords(recs ...record.Record) *Dataset {
	return newNode("records", nil, func(context.Context) stream.Iterator {
		return stream.FromSlice(recs)
	})
}

// FromColumns builds a dataset of KeyedMap rows from named columns. All
// columns must have the same length; a mismatch panics with a
// configuration error.
func FromColumns(cols map[string][]record.Record) *Dataset {
	n := -1
	for key, col := range cols {
		if n == -1 {
			n = len(col)
		} else if len(col) != n {
			panic(errors.Configuration("column %q has %d records, want %d", key, len(col), n))
		}
	}
	if n <= 0 {
		n = 0
	}
	rows := make([]record.Record, n)
	for i := range rows {
		row := make(record.KeyedMap, len(cols))
		for key, col := range cols {
			row[key] = col[i]
		}
		rows[i] = row
	}
	return newNode("columns", nil, func(context.Context) stream.Iterator {
		return stream.FromSlice(rows)
	})
}

// Zip builds a dataset of Sequence rows from positional columns. All
// columns must have the same length; a mismatch panics with a
// configuration error.
func Zip(cols ...[]record.Record) *Dataset {
	if len(cols) == 0 {
		panic(errors.Configuration("zip requires at least one column"))
	}
	n := len(cols[0])
	for i, col := range cols[1:] {
		if len(col) != n {
			panic(errors.Configuration("column %d has %d records, want %d", i+1, len(col), n))
		}
	}
	rows := make([]record.Record, n)
	for i := range rows {
		row := make(record.Sequence, len(cols))
		for j, col := range cols {
			row[j] = col[i]
		}
		rows[i] = row
	}
	return newNode("zip", nil, func(context.Context) stream.Iterator {
		return stream.FromSlice(rows)
	})
}

// FromFunc builds a dataset from an arbitrary iterator factory. The
// factory is invoked once per Iterate call and owns any resources the
// returned iterator holds; its Close must release them.
func FromFunc(open func(ctx context.Context) stream.Iterator) *Dataset {
	return newNode("source", nil, open)
}
