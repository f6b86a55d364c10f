package dto

import (
	"errors"
	"net/http"

	"github.com/erp/ordering/internal/domain/shared"
)

// Error codes. Domain codes pass through unchanged.
const (
	ErrCodeNotFound         = shared.CodeNotFound
	ErrCodeValidation       = shared.CodeValidation
	ErrCodeInvalidOperation = shared.CodeInvalidOperation
	ErrCodeTransport        = shared.CodeTransport

	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeUnavailable     = "SERVICE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeValidation:       http.StatusBadRequest,
	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeRequestTooLarge:  http.StatusRequestEntityTooLarge,
	ErrCodeInvalidOperation: http.StatusInternalServerError,
	ErrCodeTransport:        http.StatusInternalServerError,
	ErrCodeInternal:         http.StatusInternalServerError,
	ErrCodeUnavailable:      http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// FromError converts an error into a status and an error response. Domain
// errors keep their code and message; anything else is reported as an
// internal error without exposing its text.
func FromError(err error, requestID string) (int, Response) {
	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) {
		return http.StatusInternalServerError,
			NewErrorResponseWithRequestID(ErrCodeInternal, "An unexpected error occurred", requestID)
	}

	if domainErr.Code == shared.CodeValidation {
		return http.StatusBadRequest,
			NewValidationErrorResponse(domainErr.Message, requestID, domainErr.Details)
	}

	status := GetHTTPStatus(domainErr.Code)
	message := domainErr.Message
	if status >= http.StatusInternalServerError {
		// transport and programming failures keep their code but not their
		// internals
		message = "An unexpected error occurred"
	}
	return status, NewErrorResponseWithRequestID(domainErr.Code, message, requestID)
}
