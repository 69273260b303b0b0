package executor

import (
	"context"

	"github.com/kbukum/datakit/errors"
	"github.com/kbukum/datakit/record"
	"github.com/kbukum/datakit/stream"
)

// GenFunc produces zero or more output records from one input record:
// a map yields one, a filter zero or one, a flat-map any number.
type GenFunc func(ctx context.Context, rec record.Record) ([]record.Record, error)

// Generator couples a GenFunc with the registry name it was registered
// under. The name is empty for plain in-process closures; executors that
// ship work to other processes require it (closures cannot cross a process
// boundary).
type Generator struct {
	Name string
	Fn   GenFunc
}

// Generate wraps a plain function as an anonymous Generator.
func Generate(fn GenFunc) Generator { return Generator{Fn: fn} }

// Executor runs a generator against an upstream iterator. It is a
// description of how a stage executes, not mutable state: one Executor
// value may back any number of concurrent iterations, and each Execute
// call owns its workers for exactly that iteration's lifetime.
//
// Every Executor preserves upstream order end to end.
type Executor interface {
	Execute(ctx context.Context, gen Generator, upstream stream.Iterator) stream.Iterator
}

// Config carries construction-time executor hints. At most one hint may be
// set; conflicting hints are a configuration error surfaced by Resolve.
type Config struct {
	executor      Executor
	background    bool
	hasBackground bool
	threads       int
	processes     int
}

// Option sets one executor hint on a Config.
type Option func(*Config)

// WithExecutor pins the stage to an explicit executor instance.
func WithExecutor(e Executor) Option {
	return func(c *Config) { c.executor = e }
}

// WithBackground(true) runs the stage on a dedicated background goroutine;
// WithBackground(false) explicitly pins it to the caller's goroutine,
// overriding inheritance.
func WithBackground(on bool) Option {
	return func(c *Config) { c.background = on; c.hasBackground = true }
}

// WithThreads runs the stage on a pool of n worker goroutines.
func WithThreads(n int) Option {
	return func(c *Config) { c.threads = n }
}

// WithProcesses runs the stage on n worker subprocesses. The stage's
// generator must be registered (see Register).
func WithProcesses(n int) Option {
	return func(c *Config) { c.processes = n }
}

// NewConfig folds options into a Config.
func NewConfig(opts ...Option) Config {
	var c Config
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// IsZero reports whether no hint is set.
func (c Config) IsZero() bool {
	return c.executor == nil && !c.hasBackground && c.threads == 0 && c.processes == 0
}

// Validate returns a configuration error when hints conflict or carry
// invalid counts.
func (c Config) Validate() error {
	hints := 0
	if c.executor != nil {
		hints++
	}
	if c.hasBackground {
		hints++
	}
	if c.threads != 0 {
		hints++
	}
	if c.processes != 0 {
		hints++
	}
	if hints > 1 {
		return errors.Configuration("conflicting executor options: at most one of executor, background, threads, processes may be set")
	}
	if c.threads < 0 {
		return errors.Configuration("thread count must be positive, got %d", c.threads)
	}
	if c.processes < 0 {
		return errors.Configuration("process count must be positive, got %d", c.processes)
	}
	return nil
}

// RequiresRegistered reports whether the config ships work across a
// process boundary, so that its generator must carry a registry name.
func (c Config) RequiresRegistered() bool {
	if c.processes > 0 {
		return true
	}
	_, ok := c.executor.(*MultiProcess)
	return ok
}

// PoolRequested reports whether the config selects a worker-pool executor,
// thread or process backed.
func (c Config) PoolRequested() bool {
	if c.threads > 0 || c.processes > 0 {
		return true
	}
	switch c.executor.(type) {
	case *ThreadPool, *MultiProcess:
		return true
	}
	return false
}

// Resolve picks the executor for a stage. Precedence: explicit executor,
// background flag, thread count, process count, then inherit (the caller
// supplies the left-most upstream's choice), then CurrentThread.
func (c Config) Resolve(inherit func() Executor) (Executor, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	switch {
	case c.executor != nil:
		return c.executor, nil
	case c.hasBackground:
		if c.background {
			return NewBackground(0), nil
		}
		return CurrentThread{}, nil
	case c.threads > 0:
		return NewThreadPool(c.threads), nil
	case c.processes > 0:
		return NewMultiProcess(c.processes), nil
	}
	if inherit != nil {
		if e := inherit(); e != nil {
			return e, nil
		}
	}
	return CurrentThread{}, nil
}
