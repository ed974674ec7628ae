package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nickunderhill/ai-interviewer/internal/domain"
	"github.com/nickunderhill/ai-interviewer/internal/errmsg"
	"github.com/nickunderhill/ai-interviewer/internal/events"
	"github.com/nickunderhill/ai-interviewer/internal/redact"
	"github.com/nickunderhill/ai-interviewer/internal/store"
	"github.com/nickunderhill/ai-interviewer/internal/task"
)

// OperationServiceError is a custom error type for operation service errors.
type OperationServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for OperationServiceError.
func (e *OperationServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("operation service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("operation service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *OperationServiceError) Unwrap() error {
	return e.Err
}

// NewOperationServiceError creates a new OperationServiceError.
func NewOperationServiceError(operation, message string, err error) *OperationServiceError {
	return &OperationServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// OperationService owns the creation side of the operation lifecycle:
// persisting pending operations, dispatching the events that spawn their
// background tasks, and serving status polls.
type OperationService interface {
	// GetOperation retrieves an operation by ID for status polling.
	// Returns store.ErrOperationNotFound if it does not exist.
	GetOperation(ctx context.Context, operationID uuid.UUID) (*domain.Operation, error)

	// StartQuestionGeneration creates a pending question generation operation
	// for the session and dispatches it for background execution. The session
	// must exist and belong to the requesting user.
	StartQuestionGeneration(ctx context.Context, sessionID, userID uuid.UUID) (*domain.Operation, error)

	// StartFeedbackAnalysis creates a pending feedback analysis operation for
	// the session and dispatches it for background execution. The session
	// must exist and belong to the requesting user.
	StartFeedbackAnalysis(ctx context.Context, sessionID, userID uuid.UUID) (*domain.Operation, error)

	// RetryOperation creates a new pending operation linked to a failed one.
	// Returns domain.ErrOperationNotRetryable if the parent is not failed.
	// The retry is a bookkeeping record; the client triggers the actual
	// regeneration through the session endpoints.
	RetryOperation(ctx context.Context, operationID uuid.UUID) (*domain.Operation, error)
}

// operationServiceImpl implements the OperationService interface.
type operationServiceImpl struct {
	operations store.OperationStore
	sessions   store.SessionStore
	emitter    events.EventEmitter
	logger     *slog.Logger
}

// NewOperationService creates a new OperationService.
// It returns an error if any of the required dependencies are nil.
func NewOperationService(
	operations store.OperationStore,
	sessions store.SessionStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (OperationService, error) {
	if operations == nil {
		return nil, domain.NewValidationError("operations", "cannot be nil", domain.ErrValidation)
	}
	if sessions == nil {
		return nil, domain.NewValidationError("sessions", "cannot be nil", domain.ErrValidation)
	}
	if emitter == nil {
		return nil, domain.NewValidationError("emitter", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &operationServiceImpl{
		operations: operations,
		sessions:   sessions,
		emitter:    emitter,
		logger:     logger.With(slog.String("component", "operation_service")),
	}, nil
}

// GetOperation implements OperationService.GetOperation.
func (s *operationServiceImpl) GetOperation(ctx context.Context, operationID uuid.UUID) (*domain.Operation, error) {
	op, err := s.operations.GetByID(ctx, operationID)
	if err != nil {
		if errors.Is(err, store.ErrOperationNotFound) {
			return nil, err
		}
		return nil, NewOperationServiceError("get", "failed to load operation", err)
	}
	return op, nil
}

// StartQuestionGeneration implements OperationService.StartQuestionGeneration.
func (s *operationServiceImpl) StartQuestionGeneration(
	ctx context.Context,
	sessionID, userID uuid.UUID,
) (*domain.Operation, error) {
	if err := s.authorizeSession(ctx, sessionID, userID); err != nil {
		return nil, err
	}

	return s.dispatch(ctx,
		domain.OperationTypeQuestionGeneration,
		events.EventTypeQuestionGeneration,
		events.QuestionGenerationPayload{SessionID: sessionID})
}

// StartFeedbackAnalysis implements OperationService.StartFeedbackAnalysis.
func (s *operationServiceImpl) StartFeedbackAnalysis(
	ctx context.Context,
	sessionID, userID uuid.UUID,
) (*domain.Operation, error) {
	if err := s.authorizeSession(ctx, sessionID, userID); err != nil {
		return nil, err
	}

	return s.dispatch(ctx,
		domain.OperationTypeFeedbackAnalysis,
		events.EventTypeFeedbackAnalysis,
		events.FeedbackAnalysisPayload{SessionID: sessionID, UserID: userID})
}

// RetryOperation implements OperationService.RetryOperation.
func (s *operationServiceImpl) RetryOperation(ctx context.Context, operationID uuid.UUID) (*domain.Operation, error) {
	parent, err := s.operations.GetByID(ctx, operationID)
	if err != nil {
		if errors.Is(err, store.ErrOperationNotFound) {
			return nil, err
		}
		return nil, NewOperationServiceError("retry", "failed to load parent operation", err)
	}

	retry, err := domain.NewRetryOperation(parent)
	if err != nil {
		return nil, err
	}

	if err := s.operations.Create(ctx, retry); err != nil {
		return nil, NewOperationServiceError("retry", "failed to save retry operation", err)
	}

	s.logger.Info("operation retry created",
		slog.String("operation_id", retry.ID.String()),
		slog.String("parent_operation_id", parent.ID.String()),
		slog.Int("retry_count", retry.RetryCount))

	return retry, nil
}

// authorizeSession verifies the session exists and belongs to the user.
// Ownership failures surface as ErrSessionNotFound so the check does not
// reveal other users' sessions.
func (s *operationServiceImpl) authorizeSession(ctx context.Context, sessionID, userID uuid.UUID) error {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return err
		}
		return NewOperationServiceError("authorize", "failed to load session", err)
	}

	if session.UserID != userID {
		return fmt.Errorf("%w: %w", store.ErrSessionNotFound, ErrNotOwned)
	}

	return nil
}

// dispatch creates a pending operation and emits its request event. If the
// event cannot be emitted the operation is failed immediately; a pending row
// with no task behind it would poll forever.
func (s *operationServiceImpl) dispatch(
	ctx context.Context,
	opType domain.OperationType,
	eventType string,
	payload any,
) (*domain.Operation, error) {
	op, err := domain.NewOperation(opType)
	if err != nil {
		return nil, NewOperationServiceError("dispatch", "failed to build operation", err)
	}

	if err := s.operations.Create(ctx, op); err != nil {
		return nil, NewOperationServiceError("dispatch", "failed to save operation", err)
	}

	event, err := events.NewOperationRequestEvent(eventType, op.ID, payload)
	if err != nil {
		s.abandon(ctx, op)
		return nil, NewOperationServiceError("dispatch", "failed to build request event", err)
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.abandon(ctx, op)
		return nil, NewOperationServiceError("dispatch", "failed to emit request event", err)
	}

	s.logger.Info("operation dispatched",
		slog.String("operation_id", op.ID.String()),
		slog.String("operation_type", string(opType)))

	return op, nil
}

// abandon fails an operation whose task will never start.
func (s *operationServiceImpl) abandon(ctx context.Context, op *domain.Operation) {
	message := errmsg.Render(task.CodeUnexpectedError, errmsg.Context{OperationType: op.Type})
	if err := s.operations.Fail(ctx, op.ID, message); err != nil {
		s.logger.Error("failed to abandon undispatched operation",
			slog.String("operation_id", op.ID.String()),
			slog.String("error", redact.Error(err)))
	}
}
