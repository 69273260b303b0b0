package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Construction errors. These surface before any I/O happens.
const (
	// ErrCodeConfiguration indicates conflicting or unknown construction
	// options, or a missing required constructor argument.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
)

// Iteration errors.
const (
	// ErrCodeEmptyDataset indicates an eager operation was applied to a
	// dataset that produced zero records.
	ErrCodeEmptyDataset ErrorCode = "EMPTY_DATASET"
	// ErrCodeShapeMismatch indicates records in one batch window could not
	// be stacked because their shapes or dtypes are incompatible.
	ErrCodeShapeMismatch ErrorCode = "SHAPE_MISMATCH"
)

// Storage errors.
const (
	// ErrCodeReadFailed indicates a record file could not be opened or decoded.
	ErrCodeReadFailed ErrorCode = "READ_FAILED"
	// ErrCodeWriteFailed indicates a record file could not be created or written.
	ErrCodeWriteFailed ErrorCode = "WRITE_FAILED"
)

// Execution errors.
const (
	// ErrCodeWorkerFailed indicates an executor worker process died or
	// returned a malformed response.
	ErrCodeWorkerFailed ErrorCode = "WORKER_FAILED"
)
