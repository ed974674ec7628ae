package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/nickunderhill/ai-interviewer/internal/domain"
)

// MessageStore defines the interface for session transcript persistence.
type MessageStore interface {
	// Create appends a message to the session transcript.
	// Returns validation errors from the domain SessionMessage if data is invalid.
	Create(ctx context.Context, msg *domain.SessionMessage) error

	// ListBySession returns the session transcript in chronological order.
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.SessionMessage, error)

	// CountAnswers returns how many answer messages the session holds.
	CountAnswers(ctx context.Context, sessionID uuid.UUID) (int, error)

	// WithTx returns a MessageStore bound to the given transaction.
	WithTx(tx *sql.Tx) MessageStore
}
