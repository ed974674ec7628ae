package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/nickunderhill/ai-interviewer/internal/domain"
)

// OperationStore defines the interface for operation persistence. Status
// writes enforce the forward-only lifecycle at the SQL level, so a slow
// writer can never clobber a terminal outcome another writer already set.
type OperationStore interface {
	// Create saves a new operation.
	// Returns validation errors from the domain Operation if data is invalid.
	Create(ctx context.Context, op *domain.Operation) error

	// GetByID retrieves an operation by its unique ID.
	// Returns ErrOperationNotFound if the operation does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Operation, error)

	// MarkProcessing transitions a pending operation to processing.
	// Returns ErrUpdateFailed if the operation is not pending anymore.
	MarkProcessing(ctx context.Context, id uuid.UUID) error

	// Complete finalizes an operation with a result payload. The write only
	// applies while the operation is pending or processing; otherwise
	// ErrUpdateFailed is returned and the stored outcome is untouched.
	Complete(ctx context.Context, id uuid.UUID, result json.RawMessage) error

	// Fail finalizes an operation with a user-facing error message, under
	// the same status guard as Complete.
	Fail(ctx context.Context, id uuid.UUID, errorMessage string) error

	// WithTx returns an OperationStore bound to the given transaction.
	// The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) OperationStore
}
