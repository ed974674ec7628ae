package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/nickunderhill/ai-interviewer/internal/domain"
)

// SessionStore defines the interface for interview session persistence.
type SessionStore interface {
	// GetByID retrieves a session by its unique ID.
	// Returns ErrSessionNotFound if the session does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.InterviewSession, error)

	// GetContext loads the session together with the related records a
	// generation needs: job posting, owning user and (optionally) resume.
	// Returns ErrSessionNotFound, ErrUserNotFound or ErrJobPostingNotFound
	// when a required record is missing. A missing resume is not an error;
	// the Resume field is left nil.
	GetContext(ctx context.Context, sessionID uuid.UUID) (*domain.SessionContext, error)

	// IncrementQuestionNumber advances the session's question counter by one.
	// Returns ErrSessionNotFound if the session does not exist.
	IncrementQuestionNumber(ctx context.Context, sessionID uuid.UUID) error

	// WithTx returns a SessionStore bound to the given transaction.
	WithTx(tx *sql.Tx) SessionStore
}
