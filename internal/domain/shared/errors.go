package shared

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes
const (
	CodeNotFound         = "NOT_FOUND"
	CodeValidation       = "VALIDATION_ERROR"
	CodeInvalidOperation = "INVALID_OPERATION"
	CodeTransport        = "TRANSPORT_ERROR"
)

// FieldError is a single field-qualified validation failure
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// DomainError represents a domain-level error
type DomainError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`

	cause error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is matches errors by code so that errors.Is(err, ErrNotFound) works for
// every NotFound regardless of entity and key.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Sentinels for errors.Is checks
var (
	ErrNotFound         = NewDomainError(CodeNotFound, "Resource not found")
	ErrValidation       = NewDomainError(CodeValidation, "Validation failed")
	ErrInvalidOperation = NewDomainError(CodeInvalidOperation, "Invalid operation")
	ErrTransport        = NewDomainError(CodeTransport, "Transport failure")
)

// NewNotFoundError reports that no entity of the given name has the given key
func NewNotFoundError(entity string, key any) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf("Entity %q (%v) was not found", entity, key))
}

// NewValidationError builds a validation failure carrying per-field messages
func NewValidationError(details ...FieldError) *DomainError {
	msgs := make([]string, 0, len(details))
	for _, d := range details {
		if d.Field == "" {
			msgs = append(msgs, d.Message)
			continue
		}
		msgs = append(msgs, d.Field+": "+d.Message)
	}
	message := "One or more validation failures have occurred"
	if len(msgs) > 0 {
		message += ": " + strings.Join(msgs, "; ")
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: message,
		Details: details,
	}
}

// NewInvalidOperationError reports a programming error such as a protected
// field in an update mask
func NewInvalidOperationError(format string, args ...any) *DomainError {
	return NewDomainError(CodeInvalidOperation, fmt.Sprintf(format, args...))
}

// NewTransportError wraps a failure talking to an external service
func NewTransportError(message string, cause error) *DomainError {
	return &DomainError{
		Code:    CodeTransport,
		Message: message,
		cause:   cause,
	}
}

// IsNotFound reports whether err is a NotFound domain error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation reports whether err is a validation failure
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsInvalidOperation reports whether err is an invalid-operation failure
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}
