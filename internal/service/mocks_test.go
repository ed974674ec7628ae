package service

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/nickunderhill/ai-interviewer/internal/domain"
	"github.com/nickunderhill/ai-interviewer/internal/events"
	"github.com/nickunderhill/ai-interviewer/internal/store"
)

// mockOperationStore keeps operations in memory for service tests.
type mockOperationStore struct {
	ops       map[uuid.UUID]*domain.Operation
	createErr error
	failErr   error
	failed    map[uuid.UUID]string
}

func newMockOperationStore() *mockOperationStore {
	return &mockOperationStore{
		ops:    make(map[uuid.UUID]*domain.Operation),
		failed: make(map[uuid.UUID]string),
	}
}

func (m *mockOperationStore) Create(_ context.Context, op *domain.Operation) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.ops[op.ID] = op
	return nil
}

func (m *mockOperationStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Operation, error) {
	op, ok := m.ops[id]
	if !ok {
		return nil, store.ErrOperationNotFound
	}
	return op, nil
}

func (m *mockOperationStore) MarkProcessing(_ context.Context, _ uuid.UUID) error { return nil }

func (m *mockOperationStore) Complete(_ context.Context, _ uuid.UUID, _ json.RawMessage) error {
	return nil
}

func (m *mockOperationStore) Fail(_ context.Context, id uuid.UUID, message string) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.failed[id] = message
	return nil
}

func (m *mockOperationStore) WithTx(_ *sql.Tx) store.OperationStore { return m }

// mockSessionStore serves one canned session.
type mockSessionStore struct {
	session *domain.InterviewSession
	getErr  error
}

func (m *mockSessionStore) GetByID(_ context.Context, id uuid.UUID) (*domain.InterviewSession, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.session == nil || m.session.ID != id {
		return nil, store.ErrSessionNotFound
	}
	return m.session, nil
}

func (m *mockSessionStore) GetContext(_ context.Context, _ uuid.UUID) (*domain.SessionContext, error) {
	return nil, store.ErrSessionNotFound
}

func (m *mockSessionStore) IncrementQuestionNumber(_ context.Context, _ uuid.UUID) error {
	return nil
}

func (m *mockSessionStore) WithTx(_ *sql.Tx) store.SessionStore { return m }

// mockEmitter records emitted events.
type mockEmitter struct {
	events  []*events.OperationRequestEvent
	emitErr error
}

func (m *mockEmitter) EmitEvent(_ context.Context, event *events.OperationRequestEvent) error {
	if m.emitErr != nil {
		return m.emitErr
	}
	m.events = append(m.events, event)
	return nil
}
