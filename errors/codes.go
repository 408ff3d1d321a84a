package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Caller input errors
const (
	// ErrCodeMissingFile indicates the upload carried no usable audio file.
	ErrCodeMissingFile ErrorCode = "MISSING_FILE"
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodePayloadTooLarge indicates the request body exceeded the configured limit.
	ErrCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"
)

// Backend transport errors (retryable by a caller, never by the proxy)
const (
	// ErrCodeBackendUnreachable indicates the backend could not be reached.
	ErrCodeBackendUnreachable ErrorCode = "BACKEND_UNREACHABLE"
	// ErrCodeBackendTimeout indicates the backend did not answer in time.
	ErrCodeBackendTimeout ErrorCode = "BACKEND_TIMEOUT"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeBackendUnreachable: true,
	ErrCodeBackendTimeout:     true,
	ErrCodeInternal:           false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
