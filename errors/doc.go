// Package errors provides unified error handling for datakit.
// It implements structured error types with machine-readable codes so
// callers can distinguish configuration mistakes (fail-fast, before I/O)
// from iteration-time failures (propagated unmodified through the pull
// chain). Errors are never retried inside the pipeline.
package errors
