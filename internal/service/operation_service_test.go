package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickunderhill/ai-interviewer/internal/domain"
	"github.com/nickunderhill/ai-interviewer/internal/events"
	"github.com/nickunderhill/ai-interviewer/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, ops *mockOperationStore, sessions *mockSessionStore, emitter *mockEmitter) OperationService {
	t.Helper()
	svc, err := NewOperationService(ops, sessions, emitter, testLogger())
	require.NoError(t, err)
	return svc
}

func sessionFixture() *domain.InterviewSession {
	return &domain.InterviewSession{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		JobPostingID: uuid.New(),
	}
}

func TestNewOperationService_NilDependencies(t *testing.T) {
	t.Parallel()

	ops := newMockOperationStore()
	sessions := &mockSessionStore{}
	emitter := &mockEmitter{}

	_, err := NewOperationService(nil, sessions, emitter, testLogger())
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewOperationService(ops, nil, emitter, testLogger())
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewOperationService(ops, sessions, nil, testLogger())
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStartQuestionGeneration(t *testing.T) {
	t.Parallel()

	session := sessionFixture()
	ops := newMockOperationStore()
	emitter := &mockEmitter{}
	svc := newTestService(t, ops, &mockSessionStore{session: session}, emitter)

	op, err := svc.StartQuestionGeneration(context.Background(), session.ID, session.UserID)
	require.NoError(t, err)

	assert.Equal(t, domain.OperationTypeQuestionGeneration, op.Type)
	assert.Equal(t, domain.OperationStatusPending, op.Status)
	assert.Zero(t, op.RetryCount)

	require.Len(t, emitter.events, 1)
	event := emitter.events[0]
	assert.Equal(t, events.EventTypeQuestionGeneration, event.Type)
	assert.Equal(t, op.ID, event.OperationID)

	var payload events.QuestionGenerationPayload
	require.NoError(t, event.UnmarshalPayload(&payload))
	assert.Equal(t, session.ID, payload.SessionID)
}

func TestStartFeedbackAnalysis(t *testing.T) {
	t.Parallel()

	session := sessionFixture()
	ops := newMockOperationStore()
	emitter := &mockEmitter{}
	svc := newTestService(t, ops, &mockSessionStore{session: session}, emitter)

	op, err := svc.StartFeedbackAnalysis(context.Background(), session.ID, session.UserID)
	require.NoError(t, err)
	assert.Equal(t, domain.OperationTypeFeedbackAnalysis, op.Type)

	require.Len(t, emitter.events, 1)

	var payload events.FeedbackAnalysisPayload
	require.NoError(t, emitter.events[0].UnmarshalPayload(&payload))
	assert.Equal(t, session.ID, payload.SessionID)
	assert.Equal(t, session.UserID, payload.UserID)
}

func TestStart_SessionAuthorization(t *testing.T) {
	t.Parallel()

	t.Run("session missing", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, newMockOperationStore(), &mockSessionStore{}, &mockEmitter{})

		_, err := svc.StartQuestionGeneration(context.Background(), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, store.ErrSessionNotFound)
	})

	t.Run("owned by another user", func(t *testing.T) {
		t.Parallel()
		session := sessionFixture()
		ops := newMockOperationStore()
		emitter := &mockEmitter{}
		svc := newTestService(t, ops, &mockSessionStore{session: session}, emitter)

		_, err := svc.StartQuestionGeneration(context.Background(), session.ID, uuid.New())
		assert.ErrorIs(t, err, store.ErrSessionNotFound, "ownership failures must look like missing sessions")
		assert.ErrorIs(t, err, ErrNotOwned)
		assert.Empty(t, emitter.events)
		assert.Empty(t, ops.ops, "no operation row should be created")
	})
}

func TestStart_EmitFailureAbandonsOperation(t *testing.T) {
	t.Parallel()

	session := sessionFixture()
	ops := newMockOperationStore()
	emitter := &mockEmitter{emitErr: errors.New("bus is down")}
	svc := newTestService(t, ops, &mockSessionStore{session: session}, emitter)

	_, err := svc.StartQuestionGeneration(context.Background(), session.ID, session.UserID)
	require.Error(t, err)

	require.Len(t, ops.failed, 1, "undispatched operation must be failed, not left pending")
	for _, message := range ops.failed {
		assert.Contains(t, message, "unexpected error")
	}
}

func TestGetOperation(t *testing.T) {
	t.Parallel()

	ops := newMockOperationStore()
	svc := newTestService(t, ops, &mockSessionStore{}, &mockEmitter{})

	op, err := domain.NewOperation(domain.OperationTypeQuestionGeneration)
	require.NoError(t, err)
	require.NoError(t, ops.Create(context.Background(), op))

	got, err := svc.GetOperation(context.Background(), op.ID)
	require.NoError(t, err)
	assert.Equal(t, op.ID, got.ID)

	_, err = svc.GetOperation(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrOperationNotFound)
}

func TestRetryOperation(t *testing.T) {
	t.Parallel()

	t.Run("failed parent", func(t *testing.T) {
		t.Parallel()
		ops := newMockOperationStore()
		svc := newTestService(t, ops, &mockSessionStore{}, &mockEmitter{})

		parent, err := domain.NewOperation(domain.OperationTypeQuestionGeneration)
		require.NoError(t, err)
		require.NoError(t, parent.TransitionTo(domain.OperationStatusProcessing))
		require.NoError(t, parent.Fail("it broke"))
		require.NoError(t, ops.Create(context.Background(), parent))

		retry, err := svc.RetryOperation(context.Background(), parent.ID)
		require.NoError(t, err)

		assert.Equal(t, domain.OperationStatusPending, retry.Status)
		assert.Equal(t, parent.Type, retry.Type)
		require.NotNil(t, retry.ParentOperationID)
		assert.Equal(t, parent.ID, *retry.ParentOperationID)
		assert.Equal(t, 1, retry.RetryCount)

		_, persisted := ops.ops[retry.ID]
		assert.True(t, persisted)
	})

	t.Run("non-failed parent", func(t *testing.T) {
		t.Parallel()
		ops := newMockOperationStore()
		svc := newTestService(t, ops, &mockSessionStore{}, &mockEmitter{})

		parent, err := domain.NewOperation(domain.OperationTypeQuestionGeneration)
		require.NoError(t, err)
		require.NoError(t, ops.Create(context.Background(), parent))

		_, err = svc.RetryOperation(context.Background(), parent.ID)
		assert.ErrorIs(t, err, domain.ErrOperationNotRetryable)
	})

	t.Run("missing parent", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, newMockOperationStore(), &mockSessionStore{}, &mockEmitter{})

		_, err := svc.RetryOperation(context.Background(), uuid.New())
		assert.ErrorIs(t, err, store.ErrOperationNotFound)
	})
}
