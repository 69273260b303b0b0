// Package executor decides how one pipeline stage runs its transformation.
//
// An Executor applies a Generator (a per-record function yielding zero or
// more output records) to an upstream iterator:
//
//   - CurrentThread runs in the consumer's control flow (the default)
//   - Background runs on one dedicated goroutine with bounded prefetch
//   - ThreadPool runs on n goroutines, rejoining results in upstream order
//   - MultiProcess runs on n subprocesses of the same binary, exchanging
//     gob-encoded tasks and replies over stdin/stdout
//
// Every executor preserves upstream order. Workers are owned by a single
// iteration and torn down when its iterator is closed, on any exit path.
//
// Stages pick their executor through construction-time options
// (WithBackground, WithThreads, WithProcesses, WithExecutor); at most one
// may be set per stage. An unconfigured stage inherits the executor of its
// left-most upstream, falling back to CurrentThread.
//
// Multi-process stages require generators registered by name with Register,
// because closures cannot cross a process boundary, and the host binary
// must route worker processes into WorkerMain.
package executor
