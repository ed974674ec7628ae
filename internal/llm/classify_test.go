package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"google.golang.org/genai"

	"github.com/nickunderhill/ai-interviewer/internal/redact"
)

func TestClassify_Nil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Classify(nil))
}

func TestClassify_PassThrough(t *testing.T) {
	t.Parallel()

	original := &Error{Code: CodeRateLimit, Message: "already classified"}

	classified := Classify(fmt.Errorf("wrapped: %w", original))

	assert.Same(t, original, classified, "classification should be idempotent")
}

func TestClassify_NetworkErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		err  error
	}{
		{
			name: "deadline exceeded",
			err:  context.DeadlineExceeded,
		},
		{
			name: "wrapped deadline exceeded",
			err:  fmt.Errorf("attempt timed out: %w", context.DeadlineExceeded),
		},
		{
			name: "net op error",
			err:  &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")},
		},
		{
			name: "url error",
			err:  &url.Error{Op: "Post", URL: "https://example.com", Err: errors.New("EOF")},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			classified := Classify(tc.err)

			require.NotNil(t, classified)
			assert.Equal(t, CodeNetworkError, classified.Code)
			assert.True(t, classified.Retriable())
		})
	}
}

func TestClassify_APIStatusCodes(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		apiErr        genai.APIError
		wantCode      ErrorCode
		wantRetriable bool
	}{
		{
			name:     "401 unauthorized",
			apiErr:   genai.APIError{Code: 401, Message: "API key not valid", Status: "UNAUTHENTICATED"},
			wantCode: CodeInvalidAPIKey,
		},
		{
			name:     "429 with quota message",
			apiErr:   genai.APIError{Code: 429, Message: "You exceeded your current quota", Status: "RESOURCE_EXHAUSTED"},
			wantCode: CodeQuotaExceeded,
		},
		{
			name:     "quota status marker",
			apiErr:   genai.APIError{Code: 429, Message: "billing limit reached", Status: "insufficient_quota"},
			wantCode: CodeQuotaExceeded,
		},
		{
			name:     "plain 429",
			apiErr:   genai.APIError{Code: 429, Message: "too many requests", Status: "RESOURCE_EXHAUSTED"},
			wantCode: CodeRateLimit,
		},
		{
			name:          "500 internal",
			apiErr:        genai.APIError{Code: 500, Message: "internal error", Status: "INTERNAL"},
			wantCode:      CodeServerError,
			wantRetriable: true,
		},
		{
			name:          "503 unavailable",
			apiErr:        genai.APIError{Code: 503, Message: "overloaded", Status: "UNAVAILABLE"},
			wantCode:      CodeServerError,
			wantRetriable: true,
		},
		{
			name:     "400 bad request",
			apiErr:   genai.APIError{Code: 400, Message: "invalid argument", Status: "INVALID_ARGUMENT"},
			wantCode: CodeInvalidResponse,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			classified := Classify(tc.apiErr)

			require.NotNil(t, classified)
			assert.Equal(t, tc.wantCode, classified.Code)
			assert.Equal(t, tc.wantRetriable, classified.Retriable())
			assert.Equal(t, tc.apiErr.Code, classified.Details["http_status"])
		})
	}
}

func TestClassify_QuotaCheckedBeforeRateLimit(t *testing.T) {
	t.Parallel()

	// Both signals present on one error: quota must win.
	apiErr := genai.APIError{Code: 429, Message: "Quota exceeded for requests", Status: "RESOURCE_EXHAUSTED"}

	classified := Classify(apiErr)

	require.NotNil(t, classified)
	assert.Equal(t, CodeQuotaExceeded, classified.Code)
	assert.False(t, classified.Retriable())
}

func TestClassify_UnknownErrorFallsBack(t *testing.T) {
	t.Parallel()

	classified := Classify(errors.New("something inexplicable"))

	require.NotNil(t, classified)
	assert.Equal(t, CodeInvalidResponse, classified.Code)
	assert.False(t, classified.Retriable())
	assert.Contains(t, classified.Message, "something inexplicable")
}

func TestClassify_MasksSecretsInMessage(t *testing.T) {
	t.Parallel()

	classified := Classify(errors.New("request with key sk-abcdef1234567890 failed"))

	require.NotNil(t, classified)
	assert.NotContains(t, classified.Message, "sk-abcdef1234567890")
	assert.Contains(t, classified.Message, redact.MaskedPlaceholder)
}

func TestClassify_PreservesCauseChain(t *testing.T) {
	t.Parallel()

	cause := &net.OpError{Op: "read", Net: "tcp", Err: errors.New("reset by peer")}

	classified := Classify(cause)

	require.NotNil(t, classified)
	assert.ErrorAs(t, error(classified), new(*net.OpError))
}

func TestIsRetriable(t *testing.T) {
	t.Parallel()

	assert.True(t, IsRetriable(&Error{Code: CodeNetworkError}))
	assert.True(t, IsRetriable(&Error{Code: CodeServerError}))
	assert.False(t, IsRetriable(&Error{Code: CodeRateLimit}))
	assert.False(t, IsRetriable(&Error{Code: CodeQuotaExceeded}))
	assert.False(t, IsRetriable(&Error{Code: CodeInvalidAPIKey}))
	assert.False(t, IsRetriable(&Error{Code: CodeInvalidResponse}))
	assert.False(t, IsRetriable(errors.New("unclassified")))
	assert.False(t, IsRetriable(nil))
}

func TestCategory(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "network", Category(CodeNetworkError))
	assert.Equal(t, "authentication", Category(CodeInvalidAPIKey))
	assert.Equal(t, "quota", Category(CodeQuotaExceeded))
	assert.Equal(t, "rate_limit", Category(CodeRateLimit))
	assert.Equal(t, "server", Category(CodeServerError))
	assert.Equal(t, "invalid_response", Category(CodeInvalidResponse))
}
