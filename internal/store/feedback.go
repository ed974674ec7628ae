package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/nickunderhill/ai-interviewer/internal/domain"
)

// FeedbackStore defines the interface for interview feedback persistence.
type FeedbackStore interface {
	// Create saves a feedback record for a session.
	// Returns ErrFeedbackExists if the session already has feedback; the
	// unique constraint on session_id is the authority.
	Create(ctx context.Context, feedback *domain.InterviewFeedback) error

	// GetBySession retrieves the feedback record for a session.
	// Returns ErrFeedbackNotFound if none exists.
	GetBySession(ctx context.Context, sessionID uuid.UUID) (*domain.InterviewFeedback, error)

	// WithTx returns a FeedbackStore bound to the given transaction.
	WithTx(tx *sql.Tx) FeedbackStore
}
