package task

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickunderhill/ai-interviewer/internal/domain"
	"github.com/nickunderhill/ai-interviewer/internal/llm"
	"github.com/nickunderhill/ai-interviewer/internal/store"
)

// mockTask is a configurable Task for runner tests.
type mockTask struct {
	id      uuid.UUID
	opType  domain.OperationType
	outcome *Outcome
	err     error
	panics  bool
}

func (t *mockTask) OperationID() uuid.UUID              { return t.id }
func (t *mockTask) OperationType() domain.OperationType { return t.opType }

func (t *mockTask) Execute(context.Context) (*Outcome, error) {
	if t.panics {
		panic("boom")
	}
	return t.outcome, t.err
}

// recordingMetrics captures terminal outcome recordings.
type recordingMetrics struct {
	operations map[string]int
	panics     int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{operations: make(map[string]int)}
}

func (m *recordingMetrics) RecordOperation(opType, status string) {
	m.operations[opType+"/"+status]++
}

func (m *recordingMetrics) RecordTaskPanic() { m.panics++ }

func testRunner(coordinator OperationCoordinator, metrics MetricsRecorder) *Runner {
	return NewRunner(coordinator, metrics, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRunner_Success(t *testing.T) {
	t.Parallel()

	coordinator := newMockCoordinator()
	metrics := newRecordingMetrics()
	runner := testRunner(coordinator, metrics)

	applied := false
	opID := uuid.New()
	runner.run(context.Background(), &mockTask{
		id:     opID,
		opType: domain.OperationTypeQuestionGeneration,
		outcome: &Outcome{
			Result: json.RawMessage(`{"question_text":"Tell me about Go"}`),
			Apply: func(context.Context, *sql.Tx) error {
				applied = true
				return nil
			},
		},
	})

	assert.True(t, applied, "side effect should run inside completion")

	result, ok := coordinator.completedResult(opID)
	require.True(t, ok, "operation should be completed")
	assert.JSONEq(t, `{"question_text":"Tell me about Go"}`, string(result))

	_, failed := coordinator.failureMessage(opID)
	assert.False(t, failed, "completed operation must not also fail")
	assert.Equal(t, 1, metrics.operations["question_generation/completed"])
}

func TestRunner_ExecutionFailureRendersMessage(t *testing.T) {
	t.Parallel()

	coordinator := newMockCoordinator()
	metrics := newRecordingMetrics()
	runner := testRunner(coordinator, metrics)

	opID := uuid.New()
	runner.run(context.Background(), &mockTask{
		id:     opID,
		opType: domain.OperationTypeFeedbackAnalysis,
		err:    NewFailure(CodeResumeRequired, "no resume"),
	})

	message, ok := coordinator.failureMessage(opID)
	require.True(t, ok, "operation should be failed")
	assert.Contains(t, message, "A resume is required")
	assert.Contains(t, message, "What to do:")
	assert.Equal(t, 1, metrics.operations["feedback_analysis/failed"])
}

func TestRunner_ClassifiedUpstreamErrorSelectsMessage(t *testing.T) {
	t.Parallel()

	coordinator := newMockCoordinator()
	runner := testRunner(coordinator, newRecordingMetrics())

	opID := uuid.New()
	// The classified error arrives wrapped, as tasks wrap generator errors.
	wrapped := &llm.Error{Code: llm.CodeRateLimit, Message: "rate limited"}
	runner.run(context.Background(), &mockTask{
		id:     opID,
		opType: domain.OperationTypeQuestionGeneration,
		err:    wrapped,
	})

	message, ok := coordinator.failureMessage(opID)
	require.True(t, ok)
	assert.Contains(t, message, "Question generation is taking longer than expected")
}

func TestRunner_UnknownErrorFallsBackToUnexpected(t *testing.T) {
	t.Parallel()

	coordinator := newMockCoordinator()
	runner := testRunner(coordinator, newRecordingMetrics())

	opID := uuid.New()
	runner.run(context.Background(), &mockTask{
		id:     opID,
		opType: domain.OperationTypeQuestionGeneration,
		err:    errors.New("something odd"),
	})

	message, ok := coordinator.failureMessage(opID)
	require.True(t, ok)
	assert.Contains(t, message, "An unexpected error occurred")
}

func TestRunner_CommitFailureWritesDBWriteFailed(t *testing.T) {
	t.Parallel()

	coordinator := newMockCoordinator()
	coordinator.completeErr = errors.New("connection reset")
	metrics := newRecordingMetrics()
	runner := testRunner(coordinator, metrics)

	opID := uuid.New()
	runner.run(context.Background(), &mockTask{
		id:      opID,
		opType:  domain.OperationTypeQuestionGeneration,
		outcome: &Outcome{Result: json.RawMessage(`{}`)},
	})

	message, ok := coordinator.failureMessage(opID)
	require.True(t, ok)
	assert.Contains(t, message, "We couldn't save the result")
	assert.Equal(t, 1, metrics.operations["question_generation/failed"])
}

func TestRunner_DuplicateFeedbackWritesAlreadyExists(t *testing.T) {
	t.Parallel()

	coordinator := newMockCoordinator()
	coordinator.completeErr = store.ErrFeedbackExists
	runner := testRunner(coordinator, newRecordingMetrics())

	opID := uuid.New()
	runner.run(context.Background(), &mockTask{
		id:      opID,
		opType:  domain.OperationTypeFeedbackAnalysis,
		outcome: &Outcome{Result: json.RawMessage(`{}`)},
	})

	message, ok := coordinator.failureMessage(opID)
	require.True(t, ok)
	assert.Contains(t, message, "Feedback has already been generated")
}

func TestRunner_OperationMissingDropsTask(t *testing.T) {
	t.Parallel()

	coordinator := newMockCoordinator()
	coordinator.markProcessingErr = store.ErrOperationNotFound
	metrics := newRecordingMetrics()
	runner := testRunner(coordinator, metrics)

	opID := uuid.New()
	runner.run(context.Background(), &mockTask{
		id:      opID,
		opType:  domain.OperationTypeQuestionGeneration,
		outcome: &Outcome{Result: json.RawMessage(`{}`)},
	})

	_, completed := coordinator.completedResult(opID)
	_, failed := coordinator.failureMessage(opID)
	assert.False(t, completed)
	assert.False(t, failed)
	assert.Empty(t, metrics.operations)
}

func TestRunner_AlreadySettledOperationDropsTask(t *testing.T) {
	t.Parallel()

	coordinator := newMockCoordinator()
	coordinator.markProcessingErr = store.ErrUpdateFailed
	runner := testRunner(coordinator, newRecordingMetrics())

	opID := uuid.New()
	runner.run(context.Background(), &mockTask{
		id:      opID,
		opType:  domain.OperationTypeQuestionGeneration,
		outcome: &Outcome{Result: json.RawMessage(`{}`)},
	})

	_, failed := coordinator.failureMessage(opID)
	assert.False(t, failed, "a settled operation must not be overwritten")
}

func TestRunner_PanicIsRecoveredAndFinalized(t *testing.T) {
	t.Parallel()

	coordinator := newMockCoordinator()
	metrics := newRecordingMetrics()
	runner := testRunner(coordinator, metrics)

	opID := uuid.New()
	runner.run(context.Background(), &mockTask{
		id:     opID,
		opType: domain.OperationTypeQuestionGeneration,
		panics: true,
	})

	message, ok := coordinator.failureMessage(opID)
	require.True(t, ok, "panicked task must still finalize its operation")
	assert.Contains(t, message, "An unexpected error occurred")
	assert.Equal(t, 1, metrics.panics)
	assert.Equal(t, 1, metrics.operations["question_generation/failed"])
}

func TestRunner_SpawnOutlivesCancelledCaller(t *testing.T) {
	t.Parallel()

	coordinator := newMockCoordinator()
	runner := testRunner(coordinator, newRecordingMetrics())

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // caller is already gone when the task starts

	opID := uuid.New()
	runner.Spawn(ctx, &mockTask{
		id:      opID,
		opType:  domain.OperationTypeQuestionGeneration,
		outcome: &Outcome{Result: json.RawMessage(`{"ok":true}`)},
	})

	require.True(t, runner.Wait(2*time.Second), "spawned task should finish")

	_, completed := coordinator.completedResult(opID)
	assert.True(t, completed, "task must run to completion despite caller cancellation")
}
