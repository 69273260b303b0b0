package executor

import (
	"fmt"
	"sync"
)

// The registry maps names to generator functions so multi-process executors
// can refer to work by name instead of shipping closures. Both the parent
// and its worker subprocesses run the same binary, so registering from init
// functions guarantees the name resolves on both sides.
var (
	registryMu sync.RWMutex
	registry   = make(map[string]GenFunc)
)

// Register registers fn under name, typically from an init function, and
// returns a Generator that any executor (including MultiProcess) can run.
// Registering the same name twice panics.
func Register(name string, fn GenFunc) Generator {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := registry[name]; ok {
		panic(fmt.Sprintf("executor: generator %q registered twice", name))
	}
	registry[name] = fn
	return Generator{Name: name, Fn: fn}
}

// Lookup returns the generator registered under name.
func Lookup(name string) (Generator, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fn, ok := registry[name]
	if !ok {
		return Generator{}, false
	}
	return Generator{Name: name, Fn: fn}, true
}
