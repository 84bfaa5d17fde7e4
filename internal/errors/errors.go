// Package apperrors defines the typed errors shared by the engine and its
// collaborators. Every failure surfaced to a caller belongs to one of five
// kinds: configuration, calculation, timeout, cancellation, or mismatch.
// Each kind maps to a stable process exit code.
package apperrors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Exit codes reported to the OS. 130 follows the shell convention for
// SIGINT termination.
const (
	ExitSuccess       = 0
	ExitErrorGeneric  = 1
	ExitErrorTimeout  = 2
	ExitErrorMismatch = 3
	ExitErrorConfig   = 4
	ExitErrorCanceled = 130
)

// ConfigError reports invalid user input: a bad flag, threshold, modulus
// or index. The computation is rejected before it starts.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError builds a ConfigError from a format string.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// CalculationError wraps an internal arithmetic fault, for example a
// transform-stage failure surfaced through the engine's panic recovery.
type CalculationError struct {
	Cause error
}

func (e CalculationError) Error() string { return e.Cause.Error() }
func (e CalculationError) Unwrap() error { return e.Cause }

// NewCalculationError wraps err as a calculation fault.
func NewCalculationError(err error) error {
	if err == nil {
		return nil
	}
	return CalculationError{Cause: err}
}

// MismatchError reports that two algorithms disagreed on the same input.
// It is produced by the orchestration layer, never by the core: the core
// returns a complete value or an error, and comparison happens outside.
type MismatchError struct {
	N          uint64
	Algorithms []string
}

func (e MismatchError) Error() string {
	return fmt.Sprintf("result mismatch for F(%d) between %s",
		e.N, strings.Join(e.Algorithms, ", "))
}

// NewMismatchError records a disagreement between the named algorithms.
func NewMismatchError(n uint64, algorithms ...string) error {
	return MismatchError{N: n, Algorithms: algorithms}
}

// ServerError wraps a failure in the HTTP server component.
type ServerError struct {
	Message string
	Cause   error
}

func (e ServerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e ServerError) Unwrap() error { return e.Cause }

// NewServerError creates a ServerError with an optional cause.
func NewServerError(message string, cause error) error {
	return ServerError{Message: message, Cause: cause}
}

// ValidationError reports a rejected request field, used by the HTTP API.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
	}
	return "validation error: " + e.Message
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, value any) error {
	return ValidationError{Field: field, Message: message, Value: value}
}

// WrapError adds context to err with %w semantics; nil stays nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsContextError reports whether err stems from context cancellation or an
// expired deadline.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeFromError classifies err into the application's exit codes.
// Context deadline errors rank as timeouts and cancellations as canceled,
// matching the cooperative abort model of the engine.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ExitErrorTimeout
	}
	if errors.Is(err, context.Canceled) {
		return ExitErrorCanceled
	}
	var mismatch MismatchError
	if errors.As(err, &mismatch) {
		return ExitErrorMismatch
	}
	var config ConfigError
	var validation ValidationError
	if errors.As(err, &config) || errors.As(err, &validation) {
		return ExitErrorConfig
	}
	return ExitErrorGeneric
}
