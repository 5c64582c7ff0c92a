// Package errors provides centralized error definitions and error handling utilities
// for elitectl. It defines sentinel errors, typed errors carrying context, and
// classification helpers used by the TUI and CLI to decide what to show the user.
//
// # Error Types
//
// Domain errors:
//   - AuthError: a credential pair was rejected
//   - StoreError: the key-value store failed to read or write a value
//
// Semantic errors:
//   - ValidationError: invalid input (e.g. a target that does not match the
//     required prefix pattern)
//
// # Usage
//
//	err := errors.NewAuthError("access denied", errors.ErrInvalidCredentials).WithUsername("x")
//	if errors.Is(err, errors.ErrInvalidCredentials) { ... }
//
//	var verr *errors.ValidationError
//	if errors.As(err, &verr) { ... }
//
// Neither AuthError nor ValidationError is fatal: both are recovered locally and
// surfaced as a short status message, see [UserMessage].
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

var (
	// ErrInvalidCredentials indicates that a username/password pair was rejected.
	ErrInvalidCredentials = New("invalid credentials")
	// ErrInvalidTarget indicates that a task target does not match the required pattern.
	ErrInvalidTarget = New("invalid target")
	// ErrNotFound indicates that a key is absent from the store.
	ErrNotFound = New("not found")
	// ErrStoreUnavailable indicates that the store backend could not be reached.
	ErrStoreUnavailable = New("store unavailable")
	// ErrCanceled indicates that an operation was canceled.
	ErrCanceled = New("operation canceled")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// EliteError is the base interface for all typed errors in this module.
type EliteError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool

	// Message returns the message without the cause chain.
	Message() string
}

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// Message returns the message without the cause chain.
func (e *baseError) Message() string {
	return e.message
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// AuthError represents a rejected login attempt.
//
// Example:
//
//	err := errors.NewAuthError("access denied", errors.ErrInvalidCredentials).WithUsername("x")
//	fmt.Println(err) // "auth error [user=x]: access denied: invalid credentials"
type AuthError struct {
	baseError
	Username string
}

// NewAuthError creates a new AuthError.
func NewAuthError(message string, cause error) *AuthError {
	return &AuthError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithUsername adds the attempted username to the error context.
func (e *AuthError) WithUsername(username string) *AuthError {
	e.Username = username
	return e
}

// Error returns the formatted error message.
func (e *AuthError) Error() string {
	prefix := "auth error"
	if e.Username != "" {
		prefix = fmt.Sprintf("auth error [user=%s]", e.Username)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *AuthError) Is(target error) bool {
	if _, ok := target.(*AuthError); ok {
		return true
	}
	return e.cause != nil && errors.Is(e.cause, target)
}

// StoreError represents a failure of the persistent key-value store.
type StoreError struct {
	baseError
	Backend string
	Key     string
}

// NewStoreError creates a new StoreError.
func NewStoreError(message string, cause error) *StoreError {
	return &StoreError{
		baseError: baseError{
			message:  message,
			cause:    cause,
			severity: SeverityError,
		},
	}
}

// WithBackend adds the store backend name to the error context.
func (e *StoreError) WithBackend(backend string) *StoreError {
	e.Backend = backend
	return e
}

// WithKey adds the affected key to the error context.
func (e *StoreError) WithKey(key string) *StoreError {
	e.Key = key
	return e
}

// Error returns the formatted error message.
func (e *StoreError) Error() string {
	var parts []string
	if e.Backend != "" {
		parts = append(parts, fmt.Sprintf("backend=%s", e.Backend))
	}
	if e.Key != "" {
		parts = append(parts, fmt.Sprintf("key=%s", e.Key))
	}

	prefix := "store error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("store error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *StoreError) Is(target error) bool {
	if _, ok := target.(*StoreError); ok {
		return true
	}
	return e.cause != nil && errors.Is(e.cause, target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// ValidationError represents invalid input.
//
// Example:
//
//	err := errors.NewValidationError("target must match +62*").WithField("target").WithValue("0812")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%q", fmt.Sprint(e.Value)))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	return e.cause != nil && errors.Is(e.cause, target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsUserFacing returns true if the error message is safe to display to end users.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	var eliteErr EliteError
	if As(err, &eliteErr) {
		return eliteErr.IsUserFacing()
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement EliteError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}
	var eliteErr EliteError
	if As(err, &eliteErr) {
		return eliteErr.Severity()
	}
	return SeverityError
}

// UserMessage maps an error to the short status line shown in the UI.
// User-facing errors without a dedicated line show their own message.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case Is(err, ErrInvalidCredentials):
		return "ACCESS DENIED"
	case Is(err, ErrInvalidTarget):
		return "Enter valid target number"
	case Is(err, ErrCanceled):
		return "Operation canceled"
	}

	var storeErr *StoreError
	if As(err, &storeErr) {
		return "Storage unavailable"
	}

	var eliteErr EliteError
	if IsUserFacing(err) && As(err, &eliteErr) {
		return eliteErr.Message()
	}
	return "Internal error"
}

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
