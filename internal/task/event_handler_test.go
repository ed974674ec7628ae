package task

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickunderhill/ai-interviewer/internal/events"
)

func newTestEventHandler(t *testing.T, sessions *mockSessionStore, coordinator *mockCoordinator) *EventHandler {
	t.Helper()

	factory, err := NewFactory(sessions, &mockMessageStore{}, &mockFeedbackStore{}, &mockGenerator{response: "ok"}, testLogger())
	require.NoError(t, err)

	return NewEventHandler(factory, testRunner(coordinator, newRecordingMetrics()), testLogger())
}

func TestEventHandler_QuestionGeneration(t *testing.T) {
	t.Parallel()

	sessions := &mockSessionStore{sessionCtx: sessionContextFixture(0, true)}
	coordinator := newMockCoordinator()
	handler := newTestEventHandler(t, sessions, coordinator)

	opID := uuid.New()
	event, err := events.NewOperationRequestEvent(events.EventTypeQuestionGeneration, opID,
		events.QuestionGenerationPayload{SessionID: uuid.New()})
	require.NoError(t, err)

	require.NoError(t, handler.HandleEvent(context.Background(), event))
	require.True(t, handler.runner.Wait(2*time.Second))

	_, completed := coordinator.completedResult(opID)
	assert.True(t, completed, "event should spawn a task that completes the operation")
}

func TestEventHandler_FeedbackAnalysis(t *testing.T) {
	t.Parallel()

	sctx := sessionContextFixture(3, true)
	sessions := &mockSessionStore{sessionCtx: sctx}
	coordinator := newMockCoordinator()

	factory, err := NewFactory(sessions,
		&mockMessageStore{transcript: transcriptFixture(sctx.Session.ID)},
		&mockFeedbackStore{},
		&mockGenerator{response: validAnalysisJSON},
		testLogger())
	require.NoError(t, err)
	handler := NewEventHandler(factory, testRunner(coordinator, newRecordingMetrics()), testLogger())

	opID := uuid.New()
	event, err := events.NewOperationRequestEvent(events.EventTypeFeedbackAnalysis, opID,
		events.FeedbackAnalysisPayload{SessionID: sctx.Session.ID, UserID: sctx.Session.UserID})
	require.NoError(t, err)

	require.NoError(t, handler.HandleEvent(context.Background(), event))
	require.True(t, handler.runner.Wait(2*time.Second))

	result, completed := coordinator.completedResult(opID)
	require.True(t, completed)
	assert.Contains(t, string(result), "overall_score")
}

func TestEventHandler_UnknownTypeIgnored(t *testing.T) {
	t.Parallel()

	coordinator := newMockCoordinator()
	handler := newTestEventHandler(t, &mockSessionStore{}, coordinator)

	event, err := events.NewOperationRequestEvent("operation.unknown", uuid.New(), struct{}{})
	require.NoError(t, err)

	assert.NoError(t, handler.HandleEvent(context.Background(), event))
	assert.Empty(t, coordinator.processed)
}

func TestEventHandler_MalformedPayload(t *testing.T) {
	t.Parallel()

	handler := newTestEventHandler(t, &mockSessionStore{}, newMockCoordinator())

	event := &events.OperationRequestEvent{
		ID:          uuid.New(),
		Type:        events.EventTypeQuestionGeneration,
		OperationID: uuid.New(),
		Payload:     json.RawMessage(`{not json`),
		CreatedAt:   time.Now().UTC(),
	}

	assert.Error(t, handler.HandleEvent(context.Background(), event))
}

func TestEventHandler_TaskCreationFailure(t *testing.T) {
	t.Parallel()

	handler := newTestEventHandler(t, &mockSessionStore{}, newMockCoordinator())

	// A nil session ID fails task construction before anything is spawned.
	event, err := events.NewOperationRequestEvent(events.EventTypeQuestionGeneration, uuid.New(),
		events.QuestionGenerationPayload{SessionID: uuid.Nil})
	require.NoError(t, err)

	assert.Error(t, handler.HandleEvent(context.Background(), event))
}
