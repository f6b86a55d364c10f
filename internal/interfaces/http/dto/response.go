package dto

import "github.com/erp/ordering/internal/domain/shared"

// Response represents a standard API response
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code      string              `json:"code"`
	Message   string              `json:"message"`
	RequestID string              `json:"request_id,omitempty"`
	Details   []shared.FieldError `json:"details,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithRequestID creates an error response tagged with the request ID
func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	resp := NewErrorResponse(code, message)
	resp.Error.RequestID = requestID
	return resp
}

// NewValidationErrorResponse creates a validation error response with
// per-field details
func NewValidationErrorResponse(message, requestID string, details []shared.FieldError) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      ErrCodeValidation,
			Message:   message,
			RequestID: requestID,
			Details:   details,
		},
	}
}

// IDResponse carries the identifier of a created resource
type IDResponse struct {
	ID uint `json:"id"`
}

// ResultResponse carries the outcome of a command without a payload
type ResultResponse struct {
	Result bool `json:"result"`
}
