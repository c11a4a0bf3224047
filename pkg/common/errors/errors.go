package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Common sentinel errors
var (
	// ErrFetch indicates remote document retrieval failed (bad status,
	// timeout, network failure, oversize response).
	ErrFetch = errors.New("fetch failed")
	// ErrNotFound indicates a local path or cache identifier does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates supplied data failed structural checks
	// (bad base64, empty identifier, missing required field).
	ErrValidation = errors.New("invalid input")
	// ErrConfiguration indicates a required credential or setting is absent
	// at startup.
	ErrConfiguration = errors.New("configuration error")
	// ErrRemoteCall indicates the model call itself failed (rate limit,
	// outage, malformed response).
	ErrRemoteCall = errors.New("remote call failed")
)

// AppError represents an application-specific error with an HTTP status code.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// MapError maps a sentinel error to an AppError with an appropriate HTTP
// status code for the REST boundary.
func MapError(err error) *AppError {
	if err == nil {
		return nil
	}

	// Check for existing AppError
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrValidation):
		return NewAppError(http.StatusBadRequest, "Invalid request", err)
	case errors.Is(err, ErrNotFound):
		return NewAppError(http.StatusNotFound, "Resource not found", err)
	case errors.Is(err, ErrFetch):
		return NewAppError(http.StatusBadGateway, "Document fetch failed", err)
	case errors.Is(err, ErrConfiguration):
		return NewAppError(http.StatusServiceUnavailable, "Service misconfigured", err)
	case errors.Is(err, ErrRemoteCall):
		return NewAppError(http.StatusBadGateway, "Model call failed", err)
	}

	// Default to internal server error
	return NewAppError(http.StatusInternalServerError, "Internal server error", err)
}
