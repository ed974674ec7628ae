package llm

import (
	"errors"
	"fmt"
)

// ErrorCode is a stable identifier for one kind of upstream failure. The set
// is closed: every raw provider error maps onto exactly one of these.
type ErrorCode string

// Upstream error codes, in classification priority order.
const (
	CodeNetworkError    ErrorCode = "NETWORK_ERROR"
	CodeInvalidAPIKey   ErrorCode = "INVALID_API_KEY"
	CodeQuotaExceeded   ErrorCode = "QUOTA_EXCEEDED"
	CodeRateLimit       ErrorCode = "RATE_LIMIT"
	CodeServerError     ErrorCode = "SERVER_ERROR"
	CodeInvalidResponse ErrorCode = "INVALID_RESPONSE"
)

// ErrEmptyPrompt is returned when a generation is requested with no prompt.
var ErrEmptyPrompt = errors.New("prompt cannot be empty")

// Error is a classified upstream failure. Message is already sanitized and
// safe for logs; Cause is the original provider error and must never reach
// a client response.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
	Details map[string]any
}

// Error implements the error interface with the sanitized message.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the original provider error for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// ErrorCode returns the stable code as a string, for message rendering.
func (e *Error) ErrorCode() string {
	return string(e.Code)
}

// Retriable reports whether this failure kind is safe to retry in-process.
// Only connection-level failures and provider 5xx responses qualify; rate
// limits and quota errors are not safe to spam, and a bad API key will not
// fix itself.
func (e *Error) Retriable() bool {
	return e.Code == CodeNetworkError || e.Code == CodeServerError
}

// IsRetriable reports whether err is a classified transient upstream error.
// Unclassified errors are never retried.
func IsRetriable(err error) bool {
	var llmErr *Error
	return errors.As(err, &llmErr) && llmErr.Retriable()
}
