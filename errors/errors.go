// Package errors provides the proxy's structured error type with error codes,
// HTTP status mapping, and the caller-facing error body.
package errors

import (
	"fmt"
	"net/http"
)

// Messages shown to callers. Transport failures share one generic message so
// backend topology never leaks.
const (
	MsgMissingFile     = "No audio file provided"
	MsgPayloadTooLarge = "Request body too large"
	MsgInternal        = "Internal proxy error"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error. Never sent to callers.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Common Error Constructors ---

// MissingFile creates a new AppError for an upload without an audio file.
func MissingFile(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingFile, Message: MsgMissingFile,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"field": field},
	}
}

// PayloadTooLarge creates a new AppError for a body over the size limit.
func PayloadTooLarge(limit int64) *AppError {
	return &AppError{
		Code: ErrCodePayloadTooLarge, Message: MsgPayloadTooLarge,
		HTTPStatus: http.StatusRequestEntityTooLarge, Retryable: false,
		Details: map[string]any{"limit_bytes": limit},
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// BackendUnreachable creates a new AppError for a transport failure towards the backend.
// The caller only ever sees MsgInternal.
func BackendUnreachable(backend string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeBackendUnreachable, Message: MsgInternal,
		HTTPStatus: http.StatusInternalServerError, Retryable: true,
		Details: map[string]any{"backend": backend}, Cause: cause,
	}
}

// BackendTimeout creates a new AppError for a backend call that exceeded its deadline.
func BackendTimeout(backend string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeBackendTimeout, Message: MsgInternal,
		HTTPStatus: http.StatusInternalServerError, Retryable: true,
		Details: map[string]any{"backend": backend}, Cause: cause,
	}
}

// Internal creates a new AppError for an internal server error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: MsgInternal,
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}
