package llm

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"

	"google.golang.org/genai"

	"github.com/nickunderhill/ai-interviewer/internal/redact"
)

// Classify maps a raw provider error onto the closed taxonomy. The rules
// apply in priority order:
//
//  1. connection/timeout-level failures -> NETWORK_ERROR
//  2. HTTP 401                          -> INVALID_API_KEY
//  3. quota marker in the error body    -> QUOTA_EXCEEDED (checked before 429)
//  4. HTTP 429                          -> RATE_LIMIT
//  5. HTTP 5xx                          -> SERVER_ERROR
//  6. anything else                     -> INVALID_RESPONSE
//
// Already-classified errors pass through unchanged, so classification is
// idempotent across retries. The returned Message is masked; the raw error
// is retained as Cause for logging only.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr
	}

	if isNetworkError(err) {
		return &Error{
			Code:    CodeNetworkError,
			Message: "network error connecting to the AI service",
			Cause:   err,
		}
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		details := map[string]any{"http_status": apiErr.Code}

		switch {
		case apiErr.Code == 401:
			return &Error{
				Code:    CodeInvalidAPIKey,
				Message: "the AI service rejected the configured API key",
				Cause:   err,
				Details: details,
			}
		case hasQuotaMarker(apiErr):
			return &Error{
				Code:    CodeQuotaExceeded,
				Message: "the AI service account has exceeded its quota",
				Cause:   err,
				Details: details,
			}
		case apiErr.Code == 429:
			return &Error{
				Code:    CodeRateLimit,
				Message: "the AI service rate limit was exceeded",
				Cause:   err,
				Details: details,
			}
		case apiErr.Code >= 500 && apiErr.Code <= 599:
			return &Error{
				Code:    CodeServerError,
				Message: "the AI service is temporarily unavailable",
				Cause:   err,
				Details: details,
			}
		default:
			return &Error{
				Code:    CodeInvalidResponse,
				Message: "unexpected response from the AI service: " + redact.String(apiErr.Message),
				Cause:   err,
				Details: details,
			}
		}
	}

	return &Error{
		Code:    CodeInvalidResponse,
		Message: "unexpected error from the AI service: " + redact.Error(err),
		Cause:   err,
	}
}

// isNetworkError reports whether err is a connection or timeout level
// failure that never reached the provider.
func isNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// hasQuotaMarker reports whether the error body carries a quota signal:
// either a known quota code or the literal substring "quota" in the message.
// Quota is checked before the generic 429 branch because providers report
// exhausted billing quotas with the same HTTP status as rate limits.
func hasQuotaMarker(apiErr genai.APIError) bool {
	if strings.EqualFold(apiErr.Status, "insufficient_quota") {
		return true
	}
	return strings.Contains(strings.ToLower(apiErr.Message), "quota")
}

// Category returns the monitoring category for a classified error code.
func Category(code ErrorCode) string {
	switch code {
	case CodeNetworkError:
		return "network"
	case CodeInvalidAPIKey:
		return "authentication"
	case CodeQuotaExceeded:
		return "quota"
	case CodeRateLimit:
		return "rate_limit"
	case CodeServerError:
		return "server"
	default:
		return "invalid_response"
	}
}
