package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the operation service.
const (
	EventTypeQuestionGeneration = "operation.question_generation"
	EventTypeFeedbackAnalysis   = "operation.feedback_analysis"
)

// QuestionGenerationPayload is the payload for question generation events.
type QuestionGenerationPayload struct {
	SessionID uuid.UUID `json:"session_id"`
}

// FeedbackAnalysisPayload is the payload for feedback analysis events.
type FeedbackAnalysisPayload struct {
	SessionID uuid.UUID `json:"session_id"`
	UserID    uuid.UUID `json:"user_id"`
}

// OperationRequestEvent asks the background layer to execute work for an
// already-created operation. The service layer emits these instead of
// depending on the task package directly, which keeps the dependency
// direction one-way.
type OperationRequestEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type selects which task the event should spawn
	Type string `json:"type"`

	// OperationID is the operation row the task will report into
	OperationID uuid.UUID `json:"operation_id"`

	// Payload carries task-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *OperationRequestEvent) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewOperationRequestEvent creates an event of the given type for an
// operation, serializing the payload to JSON.
func NewOperationRequestEvent(eventType string, operationID uuid.UUID, payload any) (*OperationRequestEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &OperationRequestEvent{
		ID:          uuid.New(),
		Type:        eventType,
		OperationID: operationID,
		Payload:     payloadBytes,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *OperationRequestEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *OperationRequestEvent) error
}
