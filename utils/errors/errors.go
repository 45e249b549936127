package errors

import (
	"fmt"
	"net/http"
)

// APIError represents a custom error type for API responses
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Details string `json:"details,omitempty"`
}

// Error returns the error message
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAPIError(code, message string, status int, details ...string) *APIError {
	err := &APIError{
		Code:    code,
		Message: message,
		Status:  status,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

var (
	ErrInvalidInput     = NewAPIError("INVALID_INPUT", "Invalid request data", http.StatusBadRequest)
	ErrNotFound         = NewAPIError("NOT_FOUND", "Resource not found", http.StatusNotFound)
	ErrInternal         = NewAPIError("INTERNAL_SERVER_ERROR", "Internal server error", http.StatusInternalServerError)
	ErrConflict         = NewAPIError("CONFLICT", "Resource conflict", http.StatusConflict)
	ErrMethodNotAllowed = NewAPIError("METHOD_NOT_ALLOWED", "Method not allowed", http.StatusMethodNotAllowed)
	ErrViewNotFound     = NewAPIError("VIEW_NOT_FOUND", "View not found", http.StatusNotFound)
	ErrViewClosed       = NewAPIError("VIEW_CLOSED", "View has been closed", http.StatusGone)
	ErrToiletNotFound   = NewAPIError("TOILET_NOT_FOUND", "Toilet is not in the current candidate set", http.StatusNotFound)
	ErrNoPosition       = NewAPIError("NO_POSITION", "User position is not known yet", http.StatusConflict)
	ErrNoSelection      = NewAPIError("NO_SELECTION", "No toilet is selected", http.StatusNotFound)
)

// Wrap returns err unchanged when it already is an APIError, otherwise it
// wraps it with the given code, message and status.
func Wrap(err error, code, message string, status int) *APIError {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr
	}
	return NewAPIError(code, message, status, err.Error())
}

// WithDetails copies a sentinel error and attaches details.
func (e *APIError) WithDetails(details string) *APIError {
	cp := *e
	cp.Details = details
	return &cp
}
