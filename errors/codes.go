package errors

// Code represents a machine-readable error code.
type Code string

// Transient errors (retryable).
const (
	// CodeUnavailable indicates the service is temporarily unavailable.
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeConnectionFailed indicates a failed connection to a service.
	CodeConnectionFailed Code = "CONNECTION_FAILED"
	// CodeTimeout indicates the operation timed out.
	CodeTimeout Code = "TIMEOUT"
	// CodeRateLimited indicates the caller is rate limited.
	CodeRateLimited Code = "RATE_LIMITED"
	// CodeServerError indicates a transient upstream server error.
	CodeServerError Code = "SERVER_ERROR"
)

// Terminal errors.
const (
	// CodeInvalidInput indicates the input is invalid.
	CodeInvalidInput Code = "INVALID_INPUT"
	// CodeNotFound indicates the requested resource was not found.
	CodeNotFound Code = "NOT_FOUND"
	// CodeInternal indicates an internal error.
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeCancelled indicates the operation was cancelled by the caller.
	CodeCancelled Code = "CANCELLED"
)

var retryableCodes = map[Code]bool{
	CodeUnavailable:      true,
	CodeConnectionFailed: true,
	CodeTimeout:          true,
	CodeRateLimited:      true,
	CodeServerError:      true,
}

// IsRetryableCode returns true if the code indicates a transient error.
func IsRetryableCode(code Code) bool {
	return retryableCodes[code]
}
