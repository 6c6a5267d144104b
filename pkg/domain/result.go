package domain

import (
	"context"
	"errors"
	"fmt"
)

// Error codes used on AppError. Expected failures travel as Results carrying
// one of these codes; Go errors are reserved for construction-time and
// boundary failures.
const (
	CodeInvalid             = "INVALID"
	CodeNotFound            = "NOT_FOUND"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	CodeDeadlineExceeded    = "DEADLINE_EXCEEDED"
	CodeUnavailable         = "UNAVAILABLE"
	CodeInternal            = "INTERNAL"
)

var (
	// ErrConcurrencyConflict is returned by state repositories when a save
	// races a concurrent writer (optimistic concurrency conflict).
	ErrConcurrencyConflict = errors.New("concurrency conflict: state version mismatch")

	// ErrCommandNotFound is returned when no handler is registered for a command type.
	ErrCommandNotFound = errors.New("command handler not found")
)

// AppError describes an expected failure in a machine-readable way.
type AppError struct {
	Code     string
	Message  string
	Solution string
	Details  map[string]string
}

func (e *AppError) Error() string {
	if e.Solution != "" {
		return fmt.Sprintf("%s (code: %s). Solution: %s", e.Message, e.Code, e.Solution)
	}
	return fmt.Sprintf("%s (code: %s)", e.Message, e.Code)
}

// Result is the outcome of handling a command or a domain event.
// Expected failures are carried as values, never thrown.
type Result struct {
	Success bool
	Error   *AppError
}

// Ok returns a successful Result.
func Ok() Result {
	return Result{Success: true}
}

// Failure returns a failed Result with the given code and message.
func Failure(code, message string) Result {
	return Result{Error: &AppError{Code: code, Message: message}}
}

// Failuref returns a failed Result with a formatted message.
func Failuref(code, format string, args ...any) Result {
	return Failure(code, fmt.Sprintf(format, args...))
}

// FromError converts an infrastructure error into a failed Result,
// classifying the well-known transient causes. A nil error yields Ok.
func FromError(err error) Result {
	if err == nil {
		return Ok()
	}

	switch {
	case errors.Is(err, ErrConcurrencyConflict):
		return Failure(CodeConcurrencyConflict, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return Failure(CodeDeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return Failure(CodeDeadlineExceeded, err.Error())
	default:
		return Failure(CodeUnavailable, err.Error())
	}
}

// IsFailed reports whether the result carries a failure.
func (r Result) IsFailed() bool {
	return !r.Success
}

// IsTransient reports whether the failure is worth retrying with the same
// event. Handlers are written so that a retried delivery converges.
func (r Result) IsTransient() bool {
	if r.Success || r.Error == nil {
		return false
	}
	switch r.Error.Code {
	case CodeConcurrencyConflict, CodeDeadlineExceeded, CodeUnavailable:
		return true
	}
	return false
}

// AsError converts a failed Result to a Go error. Returns nil when successful.
func (r Result) AsError() error {
	if r.Success {
		return nil
	}
	if r.Error == nil {
		return fmt.Errorf("operation failed")
	}
	return r.Error
}
