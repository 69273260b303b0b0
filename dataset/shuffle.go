package dataset

import (
	"context"
	"math/rand"
	"time"

	"github.com/kbukum/datakit/errors"
	"github.com/kbukum/datakit/record"
	"github.com/kbukum/datakit/stream"
)

// ShuffleOption tunes Shuffle and Sample.
type ShuffleOption func(*shuffleConfig)

type shuffleConfig struct {
	buffer  int
	seed    int64
	hasSeed bool
}

// WithBuffer bounds the shuffle reservoir to n records; n < 1 means the
// whole upstream is buffered (a full in-memory shuffle).
func WithBuffer(n int) ShuffleOption {
	return func(c *shuffleConfig) { c.buffer = n }
}

// WithSeed makes the node's random sequence deterministic. Two nodes
// built with the same seed over the same upstream produce identical
// orders, pass for pass.
func WithSeed(seed int64) ShuffleOption {
	return func(c *shuffleConfig) { c.seed = seed; c.hasSeed = true }
}

// Shuffle reorders records through a bounded reservoir: the first buffer
// records are shuffled up front, then every further upstream record swaps
// with a random reservoir slot. Memory use is O(buffer), and each record
// lands within buffer positions of where an unbounded shuffle could put
// it.
//
// The node owns its random state, which advances across passes; Repeat
// over a Shuffle therefore gives a fresh permutation per epoch.
// Concurrent iterations of one Shuffle node are not supported.
func (d *Dataset) Shuffle(opts ...ShuffleOption) *Dataset {
	cfg := shuffleConfig{buffer: -1}
	for _, opt := range opts {
		opt(&cfg)
	}
	rng := newRNG(cfg)
	return newNode("shuffle", []*Dataset{d}, func(ctx context.Context) stream.Iterator {
		return &shuffleIter{upstream: d.Iterate(ctx), rng: rng, buffer: cfg.buffer}
	})
}

func newRNG(cfg shuffleConfig) *rand.Rand {
	if cfg.hasSeed {
		return rand.New(rand.NewSource(cfg.seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

type shuffleIter struct {
	upstream  stream.Iterator
	rng       *rand.Rand
	buffer    int
	reservoir []record.Record
	filled    bool
	drained   bool
}

func (it *shuffleIter) Next(ctx context.Context) (record.Record, bool, error) {
	if !it.filled {
		if err := it.fill(ctx); err != nil {
			return nil, false, err
		}
	}
	if len(it.reservoir) == 0 {
		return nil, false, nil
	}
	if !it.drained {
		rec, ok, err := it.upstream.Next(ctx)
		if err != nil {
			return nil, false, err
		}
		if ok {
			i := it.rng.Intn(len(it.reservoir))
			out := it.reservoir[i]
			it.reservoir[i] = rec
			return out, true, nil
		}
		it.drained = true
	}
	out := it.reservoir[0]
	it.reservoir[0] = nil
	it.reservoir = it.reservoir[1:]
	return out, true, nil
}

// fill loads and shuffles the initial reservoir.
func (it *shuffleIter) fill(ctx context.Context) error {
	it.filled = true
	for it.buffer < 1 || len(it.reservoir) < it.buffer {
		rec, ok, err := it.upstream.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			it.drained = true
			break
		}
		it.reservoir = append(it.reservoir, rec)
	}
	it.rng.Shuffle(len(it.reservoir), func(i, j int) {
		it.reservoir[i], it.reservoir[j] = it.reservoir[j], it.reservoir[i]
	})
	return nil
}

func (it *shuffleIter) Close() error { return it.upstream.Close() }

// Sample keeps n records drawn through a shuffle reservoir of size n,
// without materializing the upstream.
func (d *Dataset) Sample(n int, opts ...ShuffleOption) *Dataset {
	if n < 1 {
		panic(errors.Configuration("sample size must be positive, got %d", n))
	}
	node := d.Shuffle(append(opts, WithBuffer(n))...).Take(n)
	node.kind = "sample"
	return node
}
