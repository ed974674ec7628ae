package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/nickunderhill/ai-interviewer/internal/config"
	"github.com/nickunderhill/ai-interviewer/internal/redact"
	"github.com/nickunderhill/ai-interviewer/internal/retry"
)

// ErrInvalidConfig is returned when the generator configuration is invalid.
var ErrInvalidConfig = errors.New("invalid generator configuration")

// GeminiGenerator implements Generator using Google's Gemini API. Each call
// is bounded by a per-attempt timeout and wrapped in the retry policy, so
// transient failures are retried here and never surface to callers.
type GeminiGenerator struct {
	logger   *slog.Logger
	client   *genai.Client
	model    string
	timeout  time.Duration
	policy   *retry.Policy
	recorder ErrorRecorder
}

// NewGeminiGenerator creates a GeminiGenerator from LLM configuration.
// Configuration problems (empty key, bad retry parameters) are rejected
// here, at wiring time.
func NewGeminiGenerator(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
	recorder ErrorRecorder,
) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if recorder == nil {
		recorder = NopErrorRecorder{}
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: API key cannot be empty", ErrInvalidConfig)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", ErrInvalidConfig)
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("%w: request timeout must be positive", ErrInvalidConfig)
	}

	policy, err := retry.NewPolicy(
		cfg.MaxRetries,
		time.Duration(cfg.BackoffBaseSeconds*float64(time.Second)),
		cfg.JitterRatio,
		retry.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", ErrInvalidConfig, err)
	}

	return &GeminiGenerator{
		logger:   logger.With("component", "gemini_generator", "model", cfg.Model),
		client:   client,
		model:    cfg.Model,
		timeout:  time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		policy:   policy,
		recorder: recorder,
	}, nil
}

// GenerateText sends the prompt to Gemini and returns the completion text.
// Transient failures (NETWORK_ERROR, SERVER_ERROR) are retried with backoff;
// everything else fails on first occurrence. The returned error is always a
// classified *Error.
func (g *GeminiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", ErrEmptyPrompt
	}

	var out string
	err := g.policy.Do(ctx, IsRetriable, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()

		start := time.Now()
		resp, err := g.client.Models.GenerateContent(attemptCtx, g.model, genai.Text(prompt), nil)
		if err != nil {
			return g.classified(ctx, err)
		}
		if obs, ok := g.recorder.(LatencyObserver); ok {
			obs.ObserveLLMLatency(time.Since(start).Seconds())
		}

		text := strings.TrimSpace(resp.Text())
		if text == "" {
			return g.classified(ctx, &Error{
				Code:    CodeInvalidResponse,
				Message: "the AI service returned an empty response",
			})
		}

		out = strings.Trim(text, `"'`)
		return nil
	})
	if err != nil {
		return "", err
	}

	g.logger.InfoContext(ctx, "generation call succeeded", "prompt_length", len(prompt))
	return out, nil
}

// classified classifies, records and logs a provider failure. Transient
// kinds log at warn, the rest at error. All message text is masked first.
func (g *GeminiGenerator) classified(ctx context.Context, err error) *Error {
	llmErr := Classify(err)
	g.recorder.RecordLLMError(Category(llmErr.Code), string(llmErr.Code))

	attrs := []any{
		"error_code", llmErr.Code,
		"error", redact.Error(llmErr),
	}
	if llmErr.Cause != nil {
		attrs = append(attrs, "cause", redact.Error(llmErr.Cause))
	}

	if llmErr.Retriable() {
		g.logger.WarnContext(ctx, "generation call failed", attrs...)
	} else {
		g.logger.ErrorContext(ctx, "generation call failed", attrs...)
	}

	return llmErr
}
