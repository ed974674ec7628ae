package task

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/nickunderhill/ai-interviewer/internal/domain"
)

// SideEffect applies domain writes inside the transaction that finalizes an
// operation, so the result payload and its side effects commit atomically.
type SideEffect func(ctx context.Context, tx *sql.Tx) error

// Outcome is what a successful task execution produces: the payload that
// becomes the operation's result, plus the side effects to commit with it.
type Outcome struct {
	// Result is stored on the operation row for pollers to read.
	Result json.RawMessage

	// Apply runs inside the completion transaction. May be nil.
	Apply SideEffect
}

// Task represents one unit of background work reporting into an operation.
// Version: 1.0
type Task interface {
	// OperationID returns the operation row this task reports into
	OperationID() uuid.UUID

	// OperationType returns the operation type, used for message rendering
	// and metrics labels
	OperationType() domain.OperationType

	// Execute runs the task logic and produces the outcome. A returned
	// error carrying an ErrorCode() string selects the user-facing failure
	// message; any other error renders as an unexpected failure.
	Execute(ctx context.Context) (*Outcome, error)
}
