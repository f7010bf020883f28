package errors

import (
	"context"
	"errors"
	"fmt"
)

// ErrorType is the category of a domain error
type ErrorType string

const (
	// ErrorTypeValidation marks a request that is malformed before any parsing
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeConfiguration marks a submitted configuration value that failed strict parsing
	ErrorTypeConfiguration ErrorType = "CONFIGURATION"

	// ErrorTypeNotFound marks a missing resource
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeConflict marks a conflicting update
	ErrorTypeConflict ErrorType = "CONFLICT"

	// ErrorTypeInternal marks a collaborator failure with no finer classification
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeUnavailable marks a collaborator that could not be reached
	ErrorTypeUnavailable ErrorType = "UNAVAILABLE"

	// ErrorTypeSystem marks a host level failure (files, commands)
	ErrorTypeSystem ErrorType = "SYSTEM"

	// ErrorTypeNetwork marks a failure applying network settings to the OS
	ErrorTypeNetwork ErrorType = "NETWORK"

	// ErrorTypeTimeout marks an operation that ran out of time
	ErrorTypeTimeout ErrorType = "TIMEOUT"
)

// DomainError is the error type returned across layers
type DomainError struct {
	Type    ErrorType
	Message string
	Cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the cause
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches on error type
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewValidationError creates a validation error
func NewValidationError(message string, cause error) *DomainError {
	return &DomainError{
		Type:    ErrorTypeValidation,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigurationError creates a configuration error
func NewConfigurationError(message string, cause error) *DomainError {
	return &DomainError{
		Type:    ErrorTypeConfiguration,
		Message: message,
		Cause:   cause,
	}
}

// NewNotFoundError creates a not-found error
func NewNotFoundError(message string) *DomainError {
	return &DomainError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewConflictError creates a conflict error
func NewConflictError(message string) *DomainError {
	return &DomainError{
		Type:    ErrorTypeConflict,
		Message: message,
	}
}

// NewInternalError creates an internal error
func NewInternalError(message string, cause error) *DomainError {
	return &DomainError{
		Type:    ErrorTypeInternal,
		Message: message,
		Cause:   cause,
	}
}

// NewUnavailableError creates an unavailable error
func NewUnavailableError(message string, cause error) *DomainError {
	return &DomainError{
		Type:    ErrorTypeUnavailable,
		Message: message,
		Cause:   cause,
	}
}

// NewSystemError creates a system error
func NewSystemError(message string, cause error) *DomainError {
	return &DomainError{
		Type:    ErrorTypeSystem,
		Message: message,
		Cause:   cause,
	}
}

// NewNetworkError creates a network error
func NewNetworkError(message string, cause error) *DomainError {
	return &DomainError{
		Type:    ErrorTypeNetwork,
		Message: message,
		Cause:   cause,
	}
}

// NewTimeoutError creates a timeout error
func NewTimeoutError(message string) *DomainError {
	return &DomainError{
		Type:    ErrorTypeTimeout,
		Message: message,
	}
}

// WrapCollaborator converts an error returned by a collaborator service into
// the error the console reports. Unavailable, timeout and not-found errors
// keep their type; a context deadline becomes a timeout; everything else is
// reported as internal with the original error as cause.
func WrapCollaborator(err error, message string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &DomainError{Type: ErrorTypeTimeout, Message: message, Cause: err}
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Type {
		case ErrorTypeUnavailable, ErrorTypeTimeout, ErrorTypeNotFound:
			return &DomainError{Type: domainErr.Type, Message: message, Cause: err}
		}
	}

	return NewInternalError(message, err)
}

// TypeOf returns the type of err, or INTERNAL for errors that are not domain errors
func TypeOf(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ErrorTypeInternal
}

// IsValidationError reports whether err is a validation error
func IsValidationError(err error) bool {
	return hasType(err, ErrorTypeValidation)
}

// IsConfigurationError reports whether err is a configuration error
func IsConfigurationError(err error) bool {
	return hasType(err, ErrorTypeConfiguration)
}

// IsNotFoundError reports whether err is a not-found error
func IsNotFoundError(err error) bool {
	return hasType(err, ErrorTypeNotFound)
}

// IsInternalError reports whether err is an internal error
func IsInternalError(err error) bool {
	return hasType(err, ErrorTypeInternal)
}

// IsUnavailableError reports whether err is an unavailable error
func IsUnavailableError(err error) bool {
	return hasType(err, ErrorTypeUnavailable)
}

// IsSystemError reports whether err is a system error
func IsSystemError(err error) bool {
	return hasType(err, ErrorTypeSystem)
}

// IsNetworkError reports whether err is a network error
func IsNetworkError(err error) bool {
	return hasType(err, ErrorTypeNetwork)
}

// IsTimeoutError reports whether err is a timeout error
func IsTimeoutError(err error) bool {
	return hasType(err, ErrorTypeTimeout)
}

func hasType(err error, t ErrorType) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == t
	}
	return false
}
