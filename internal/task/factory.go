package task

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/nickunderhill/ai-interviewer/internal/llm"
	"github.com/nickunderhill/ai-interviewer/internal/store"
)

// Factory builds concrete tasks with their shared dependencies injected, so
// the event handler only needs IDs from the event payload.
type Factory struct {
	sessions  store.SessionStore
	messages  store.MessageStore
	feedback  store.FeedbackStore
	generator llm.Generator
	logger    *slog.Logger
}

// NewFactory creates a task Factory.
func NewFactory(
	sessions store.SessionStore,
	messages store.MessageStore,
	feedback store.FeedbackStore,
	generator llm.Generator,
	logger *slog.Logger,
) (*Factory, error) {
	if sessions == nil {
		return nil, ErrNilSessionStore
	}
	if messages == nil {
		return nil, ErrNilMessageStore
	}
	if feedback == nil {
		return nil, ErrNilFeedbackStore
	}
	if generator == nil {
		return nil, ErrNilGenerator
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	return &Factory{
		sessions:  sessions,
		messages:  messages,
		feedback:  feedback,
		generator: generator,
		logger:    logger,
	}, nil
}

// QuestionGeneration builds a question generation task for an operation.
func (f *Factory) QuestionGeneration(operationID, sessionID uuid.UUID) (Task, error) {
	return NewQuestionGenerationTask(operationID, sessionID, f.sessions, f.messages, f.generator, f.logger)
}

// FeedbackAnalysis builds a feedback analysis task for an operation.
func (f *Factory) FeedbackAnalysis(operationID, sessionID, userID uuid.UUID) (Task, error) {
	return NewFeedbackAnalysisTask(operationID, sessionID, userID, f.sessions, f.messages, f.feedback, f.generator, f.logger)
}
