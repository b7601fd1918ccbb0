package apperrors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// Transport / backend errors
	ErrFetchFailed   = errors.New("fetch failed")
	ErrRequestFailed = errors.New("request failed")

	// Authentication errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrNoCredential       = errors.New("no stored credential")

	// Authorization errors
	ErrForbidden = errors.New("permission denied")

	// Resource errors
	ErrNotFound = errors.New("resource not found")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")

	// Channel errors
	ErrChannelClosed = errors.New("push channel closed")
)

// APIError carries the HTTP status and the backend-supplied message for a
// failed call, wrapping the matching sentinel so errors.Is keeps working.
type APIError struct {
	Err        error
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s (status %d)", e.Err.Error(), e.StatusCode)
	}
	return fmt.Sprintf("request failed (status %d)", e.StatusCode)
}

// Unwrap implements errors.Unwrap.
func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError builds an APIError for a non-2xx response, selecting the
// sentinel from the status code.
func NewAPIError(statusCode int, message string) *APIError {
	var sentinel error
	switch statusCode {
	case 401:
		sentinel = ErrUnauthorized
	case 403:
		sentinel = ErrForbidden
	case 404:
		sentinel = ErrNotFound
	default:
		sentinel = ErrRequestFailed
	}
	return &APIError{Err: sentinel, StatusCode: statusCode, Message: message}
}

// IsAuthFailure reports whether err is a 401-class failure that must force a
// logout.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrTokenExpired)
}
