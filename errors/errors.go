package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified error type used throughout datakit.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// --- Common Error Constructors ---

// Configuration creates a new AppError for conflicting or invalid
// construction options.
func Configuration(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeConfiguration,
		Message: fmt.Sprintf(format, args...),
	}
}

// EmptyDataset creates a new AppError for an eager operation on a dataset
// that produced no records.
func EmptyDataset(operation string) *AppError {
	return &AppError{
		Code:    ErrCodeEmptyDataset,
		Message: fmt.Sprintf("%s requires at least one record", operation),
		Details: map[string]any{"operation": operation},
	}
}

// ShapeMismatch creates a new AppError for a batch window whose records
// cannot be stacked.
func ShapeMismatch(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeShapeMismatch,
		Message: fmt.Sprintf(format, args...),
	}
}

// ReadFailed creates a new AppError for a storage read failure.
func ReadFailed(path string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeReadFailed,
		Message: fmt.Sprintf("could not read records from %s", path),
		Details: map[string]any{"path": path},
		Cause:   cause,
	}
}

// WriteFailed creates a new AppError for a storage write failure.
func WriteFailed(path string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeWriteFailed,
		Message: fmt.Sprintf("could not write records to %s", path),
		Details: map[string]any{"path": path},
		Cause:   cause,
	}
}

// WorkerFailed creates a new AppError for a dead or misbehaving worker process.
func WorkerFailed(worker string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeWorkerFailed,
		Message: fmt.Sprintf("worker %s failed", worker),
		Details: map[string]any{"worker": worker},
		Cause:   cause,
	}
}

// --- Inspection helpers ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is (or wraps) an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// CodeOf returns the code of err, or the empty string for non-AppErrors.
func CodeOf(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ""
}
