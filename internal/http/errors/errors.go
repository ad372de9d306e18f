// Package errors defines the application error catalog for the HTTP layer.
package errors

import (
	"fmt"
	"net/http"
)

// AppError is the standard application error shape.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // original cause, for logs only
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// WithDetail returns a copy carrying an extra detail string. The catalog
// variables are shared; never mutate them in place.
func (e *AppError) WithDetail(detail string) *AppError {
	out := *e
	out.Detail = detail
	return &out
}

// WithCause returns a copy carrying the original error.
func (e *AppError) WithCause(err error) *AppError {
	out := *e
	out.Err = err
	return &out
}

// FromError converts any error into an AppError, defaulting to a generic
// internal error so lower-layer details never reach the client.
func FromError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return ErrInternalServerError.WithCause(err)
}

var (
	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "The request is malformed or missing required parameters.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidJSON = &AppError{
		Code:       "INVALID_JSON",
		Message:    "The request body is not valid JSON.",
		HTTPStatus: http.StatusBadRequest,
	}

	// ErrUnauthorized is deliberately generic: expired, malformed,
	// revoked and unknown-subject tokens all produce this same body,
	// so a caller cannot probe token state.
	ErrUnauthorized = &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "Authentication is required or the credentials are invalid.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "The requested resource does not exist.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrMethodNotAllowed = &AppError{
		Code:       "METHOD_NOT_ALLOWED",
		Message:    "The HTTP method is not allowed for this endpoint.",
		HTTPStatus: http.StatusMethodNotAllowed,
	}

	ErrTooManyRequests = &AppError{
		Code:       "TOO_MANY_REQUESTS",
		Message:    "Rate limit exceeded, retry later.",
		HTTPStatus: http.StatusTooManyRequests,
	}

	ErrBadGateway = &AppError{
		Code:       "PROVIDER_ERROR",
		Message:    "The identity provider rejected the request or is unavailable.",
		HTTPStatus: http.StatusBadGateway,
	}

	ErrServiceUnavailable = &AppError{
		Code:       "SERVICE_UNAVAILABLE",
		Message:    "A required backend is unavailable.",
		HTTPStatus: http.StatusServiceUnavailable,
	}

	ErrInternalServerError = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError,
	}
)
