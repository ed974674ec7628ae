package llm

import "context"

// Generator defines the interface for text generation against the upstream
// AI provider. It is the boundary the background tasks depend on, keeping
// the application core free of provider SDK types.
type Generator interface {
	// GenerateText produces a completion for the given prompt. Errors are
	// classified (*Error) before they are returned; transient kinds have
	// already been retried by the implementation.
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ErrorRecorder receives classified upstream failures for monitoring.
// Implementations are injected so tests can isolate counters.
type ErrorRecorder interface {
	RecordLLMError(category, code string)
}

// LatencyObserver is optionally implemented by recorders that also track
// the duration of successful provider calls.
type LatencyObserver interface {
	ObserveLLMLatency(seconds float64)
}

// NopErrorRecorder discards all recordings.
type NopErrorRecorder struct{}

// RecordLLMError implements ErrorRecorder.
func (NopErrorRecorder) RecordLLMError(string, string) {}
