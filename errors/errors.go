package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Error is the structured operation error type.
type Error struct {
	// Code is a machine-readable error code.
	Code Code `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the HTTP status associated with this error, if any.
	HTTPStatus int `json:"-"`
	// RetryAfter is a server-provided backoff hint (e.g. a Retry-After header).
	RetryAfter time.Duration `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error { return e.Cause }

// StatusCode returns the HTTP status associated with the error.
// It implements the Responder interface consumed by content-aware backoff.
func (e *Error) StatusCode() int { return e.HTTPStatus }

// RetryAfterHint returns the server-provided backoff hint, if present.
func (e *Error) RetryAfterHint() (time.Duration, bool) {
	return e.RetryAfter, e.RetryAfter > 0
}

// WithCause sets the underlying cause and returns the receiver.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithRetryAfter sets the server backoff hint and returns the receiver.
func (e *Error) WithRetryAfter(d time.Duration) *Error {
	e.RetryAfter = d
	return e
}

// New creates a new Error with automatic retryable detection from the code.
func New(code Code, message string, httpStatus int) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// Responder exposes transport-level retry signals off an error.
// Content-aware backoff strategies look for this interface on the cause chain.
type Responder interface {
	StatusCode() int
	RetryAfterHint() (time.Duration, bool)
}

// --- Common constructors ---

// Unavailable creates an Error for a temporarily unavailable service.
func Unavailable(service string) *Error {
	return &Error{
		Code:       CodeUnavailable,
		Message:    fmt.Sprintf("%s is temporarily unavailable", service),
		HTTPStatus: http.StatusServiceUnavailable,
		Retryable:  true,
	}
}

// Timeout creates an Error for an operation that timed out.
func Timeout(op string) *Error {
	return &Error{
		Code:       CodeTimeout,
		Message:    fmt.Sprintf("%s timed out", op),
		HTTPStatus: http.StatusGatewayTimeout,
		Retryable:  true,
	}
}

// RateLimited creates an Error for a rate-limited caller with a backoff hint.
func RateLimited(retryAfter time.Duration) *Error {
	return &Error{
		Code:       CodeRateLimited,
		Message:    "rate limit exceeded",
		HTTPStatus: http.StatusTooManyRequests,
		RetryAfter: retryAfter,
		Retryable:  true,
	}
}

// ConnectionFailed creates an Error for a failed connection.
func ConnectionFailed(target string, cause error) *Error {
	return &Error{
		Code:       CodeConnectionFailed,
		Message:    fmt.Sprintf("connection to %s failed", target),
		HTTPStatus: http.StatusBadGateway,
		Retryable:  true,
		Cause:      cause,
	}
}

// ServerError creates an Error for a transient upstream failure.
func ServerError(status int) *Error {
	return &Error{
		Code:       CodeServerError,
		Message:    fmt.Sprintf("server error (status %d)", status),
		HTTPStatus: status,
		Retryable:  status >= 500,
	}
}

// Internal creates a terminal internal Error.
func Internal(message string, cause error) *Error {
	return &Error{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// Wrap wraps err with a code and message, preserving the cause chain.
func Wrap(code Code, message string, err error) *Error {
	return &Error{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
		Cause:     err,
	}
}

// IsRetryable walks the cause chain looking for an *Error and reports its
// Retryable flag. Unknown error types report false.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}

// AsError extracts an *Error from the cause chain, if present.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
