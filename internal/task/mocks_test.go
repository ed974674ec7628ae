package task

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/nickunderhill/ai-interviewer/internal/domain"
	"github.com/nickunderhill/ai-interviewer/internal/store"
)

// Hand-written mocks for task tests. Only the methods the tasks exercise
// carry behavior; WithTx returns the mock itself so side effects can run
// against a nil transaction.

// mockCoordinator records lifecycle calls for runner tests.
type mockCoordinator struct {
	mu sync.Mutex

	markProcessingErr error
	completeErr       error
	failErr           error

	applySideEffect bool

	processed  []uuid.UUID
	completed  []uuid.UUID
	results    map[uuid.UUID]json.RawMessage
	failures   map[uuid.UUID]string
	appliedFor []uuid.UUID
}

func newMockCoordinator() *mockCoordinator {
	return &mockCoordinator{
		results:         make(map[uuid.UUID]json.RawMessage),
		failures:        make(map[uuid.UUID]string),
		applySideEffect: true,
	}
}

func (m *mockCoordinator) MarkProcessing(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.markProcessingErr != nil {
		return m.markProcessingErr
	}
	m.processed = append(m.processed, id)
	return nil
}

func (m *mockCoordinator) Complete(ctx context.Context, id uuid.UUID, result json.RawMessage, apply SideEffect) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.completeErr != nil {
		return m.completeErr
	}
	if apply != nil && m.applySideEffect {
		if err := apply(ctx, nil); err != nil {
			return err
		}
		m.appliedFor = append(m.appliedFor, id)
	}
	m.completed = append(m.completed, id)
	m.results[id] = result
	return nil
}

func (m *mockCoordinator) Fail(_ context.Context, id uuid.UUID, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.failures[id] = message
	return nil
}

func (m *mockCoordinator) failureMessage(id uuid.UUID) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.failures[id]
	return msg, ok
}

func (m *mockCoordinator) completedResult(id uuid.UUID) (json.RawMessage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result, ok := m.results[id]
	return result, ok
}

// mockSessionStore serves a single canned session context.
type mockSessionStore struct {
	sessionCtx   *domain.SessionContext
	getCtxErr    error
	incremented  []uuid.UUID
	incrementErr error
}

func (m *mockSessionStore) GetByID(_ context.Context, _ uuid.UUID) (*domain.InterviewSession, error) {
	if m.getCtxErr != nil {
		return nil, m.getCtxErr
	}
	return m.sessionCtx.Session, nil
}

func (m *mockSessionStore) GetContext(_ context.Context, _ uuid.UUID) (*domain.SessionContext, error) {
	if m.getCtxErr != nil {
		return nil, m.getCtxErr
	}
	return m.sessionCtx, nil
}

func (m *mockSessionStore) IncrementQuestionNumber(_ context.Context, sessionID uuid.UUID) error {
	if m.incrementErr != nil {
		return m.incrementErr
	}
	m.incremented = append(m.incremented, sessionID)
	return nil
}

func (m *mockSessionStore) WithTx(_ *sql.Tx) store.SessionStore { return m }

// mockMessageStore records created messages and serves a canned transcript.
type mockMessageStore struct {
	transcript []*domain.SessionMessage
	listErr    error
	created    []*domain.SessionMessage
	createErr  error
}

func (m *mockMessageStore) Create(_ context.Context, msg *domain.SessionMessage) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, msg)
	return nil
}

func (m *mockMessageStore) ListBySession(_ context.Context, _ uuid.UUID) ([]*domain.SessionMessage, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.transcript, nil
}

func (m *mockMessageStore) CountAnswers(_ context.Context, _ uuid.UUID) (int, error) {
	count := 0
	for _, msg := range m.transcript {
		if msg.Type == domain.MessageTypeAnswer {
			count++
		}
	}
	return count, nil
}

func (m *mockMessageStore) WithTx(_ *sql.Tx) store.MessageStore { return m }

// mockFeedbackStore records created feedback rows.
type mockFeedbackStore struct {
	created   []*domain.InterviewFeedback
	createErr error
}

func (m *mockFeedbackStore) Create(_ context.Context, feedback *domain.InterviewFeedback) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, feedback)
	return nil
}

func (m *mockFeedbackStore) GetBySession(_ context.Context, _ uuid.UUID) (*domain.InterviewFeedback, error) {
	if len(m.created) == 0 {
		return nil, store.ErrFeedbackNotFound
	}
	return m.created[len(m.created)-1], nil
}

func (m *mockFeedbackStore) WithTx(_ *sql.Tx) store.FeedbackStore { return m }

// mockGenerator returns a canned completion and records prompts.
type mockGenerator struct {
	response string
	err      error
	prompts  []string
}

func (m *mockGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}
