package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nickunderhill/ai-interviewer/internal/events"
)

// EventHandler implements events.EventHandler, turning operation request
// events into spawned background tasks. It is the only bridge between the
// service layer (which emits events) and task execution.
type EventHandler struct {
	factory *Factory
	runner  *Runner
	logger  *slog.Logger
}

// NewEventHandler creates an event handler that builds tasks with the given
// factory and spawns them on the given runner.
func NewEventHandler(factory *Factory, runner *Runner, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		factory: factory,
		runner:  runner,
		logger:  logger.With("component", "task_event_handler"),
	}
}

// Ensure EventHandler implements events.EventHandler
var _ events.EventHandler = (*EventHandler)(nil)

// HandleEvent builds the task matching the event type and spawns it.
// Unknown event types are ignored so other handlers can claim them.
func (h *EventHandler) HandleEvent(ctx context.Context, event *events.OperationRequestEvent) error {
	var (
		t   Task
		err error
	)

	switch event.Type {
	case events.EventTypeQuestionGeneration:
		var payload events.QuestionGenerationPayload
		if perr := event.UnmarshalPayload(&payload); perr != nil {
			h.logger.Error("failed to unmarshal payload", "error", perr, "event_id", event.ID)
			return fmt.Errorf("failed to unmarshal payload: %w", perr)
		}
		t, err = h.factory.QuestionGeneration(event.OperationID, payload.SessionID)

	case events.EventTypeFeedbackAnalysis:
		var payload events.FeedbackAnalysisPayload
		if perr := event.UnmarshalPayload(&payload); perr != nil {
			h.logger.Error("failed to unmarshal payload", "error", perr, "event_id", event.ID)
			return fmt.Errorf("failed to unmarshal payload: %w", perr)
		}
		t, err = h.factory.FeedbackAnalysis(event.OperationID, payload.SessionID, payload.UserID)

	default:
		h.logger.Debug("ignoring event with unsupported type",
			"event_type", event.Type,
			"event_id", event.ID)
		return nil
	}

	if err != nil {
		h.logger.Error("failed to create task",
			"error", err,
			"event_type", event.Type,
			"event_id", event.ID)
		return fmt.Errorf("failed to create task: %w", err)
	}

	h.logger.Debug("spawning task",
		"operation_id", event.OperationID,
		"event_type", event.Type,
		"event_id", event.ID)
	h.runner.Spawn(ctx, t)

	return nil
}
