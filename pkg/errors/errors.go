package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors that can be used with errors.Is() for error type checking
var (
	// ErrClosed indicates an operation was attempted on a closed lock file
	ErrClosed = errors.New("lock file is closed")

	// ErrLockHeld indicates the lock is currently held by another handle or
	// process
	ErrLockHeld = errors.New("lock is held elsewhere")
)

// New creates a new error with the given message.
// This is a convenience function that wraps errors.New.
func New(message string) error {
	return errors.New(message)
}

// Errorf creates a new formatted error.
// This is a convenience function that wraps fmt.Errorf.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// Wrap wraps an error with a message for better context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message for better context.
func Wrapf(err error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether target is in err's chain.
// This is a convenience function that wraps errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience function that wraps errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// LockError represents an error that occurred when interacting with a lock
// file. It includes the lock file path, the process ID when relevant, and
// the underlying OS error.
type LockError struct {
	Path string
	PID  int
	Err  error
}

// Error implements the error interface with details about the lock file and
// process.
func (e *LockError) Error() string {
	if e.PID > 0 {
		return fmt.Sprintf("lock error with file %s (PID: %d): %v", e.Path, e.PID, e.Err)
	}
	return fmt.Sprintf("lock error with file %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *LockError) Unwrap() error {
	return e.Err
}

// NewLockError creates a new LockError with the given parameters.
func NewLockError(path string, pid int, err error) *LockError {
	return &LockError{
		Path: path,
		PID:  pid,
		Err:  err,
	}
}
