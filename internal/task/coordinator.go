package task

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nickunderhill/ai-interviewer/internal/store"
)

// OperationCoordinator is the runner's view of operation persistence. The
// narrow interface keeps the runner testable without a database.
type OperationCoordinator interface {
	// MarkProcessing transitions a pending operation to processing.
	MarkProcessing(ctx context.Context, id uuid.UUID) error

	// Complete finalizes the operation with a result, committing the side
	// effect in the same transaction. Either everything commits or the
	// operation stays unfinalized.
	Complete(ctx context.Context, id uuid.UUID, result json.RawMessage, apply SideEffect) error

	// Fail finalizes the operation with a user-facing error message.
	Fail(ctx context.Context, id uuid.UUID, message string) error
}

// TxCoordinator implements OperationCoordinator over a *sql.DB using the
// store transaction helper.
type TxCoordinator struct {
	db         *sql.DB
	operations store.OperationStore
	logger     *slog.Logger
}

// NewTxCoordinator creates a TxCoordinator.
func NewTxCoordinator(db *sql.DB, operations store.OperationStore, logger *slog.Logger) *TxCoordinator {
	if db == nil {
		panic("db cannot be nil")
	}
	if operations == nil {
		panic("operations cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TxCoordinator{
		db:         db,
		operations: operations,
		logger:     logger.With("component", "operation_coordinator"),
	}
}

// Ensure TxCoordinator implements OperationCoordinator
var _ OperationCoordinator = (*TxCoordinator)(nil)

// MarkProcessing implements OperationCoordinator.MarkProcessing
func (c *TxCoordinator) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	return c.operations.MarkProcessing(ctx, id)
}

// Complete implements OperationCoordinator.Complete. The side effect runs
// first so its errors (such as a duplicate feedback row) surface before the
// operation row is touched.
func (c *TxCoordinator) Complete(ctx context.Context, id uuid.UUID, result json.RawMessage, apply SideEffect) error {
	return store.RunInTransaction(ctx, c.db, func(ctx context.Context, tx *sql.Tx) error {
		if apply != nil {
			if err := apply(ctx, tx); err != nil {
				return err
			}
		}
		return c.operations.WithTx(tx).Complete(ctx, id, result)
	})
}

// Fail implements OperationCoordinator.Fail. The write runs outside any
// task transaction so a failed completion attempt cannot roll it back.
func (c *TxCoordinator) Fail(ctx context.Context, id uuid.UUID, message string) error {
	return c.operations.Fail(ctx, id, message)
}
