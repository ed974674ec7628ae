package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nickunderhill/ai-interviewer/internal/domain"
	"github.com/nickunderhill/ai-interviewer/internal/platform/logger"
	"github.com/nickunderhill/ai-interviewer/internal/store"
)

// PostgresOperationStore implements the store.OperationStore interface
// using a PostgreSQL database as the storage backend.
type PostgresOperationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresOperationStore creates a new PostgreSQL implementation of the
// OperationStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
func NewPostgresOperationStore(db store.DBTX, logger *slog.Logger) *PostgresOperationStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresOperationStore{
		db:     db,
		logger: logger.With(slog.String("component", "operation_store")),
	}
}

// Ensure PostgresOperationStore implements store.OperationStore interface
var _ store.OperationStore = (*PostgresOperationStore)(nil)

// Create implements store.OperationStore.Create
func (s *PostgresOperationStore) Create(ctx context.Context, op *domain.Operation) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := op.Validate(); err != nil {
		log.Warn("operation validation failed during create",
			slog.String("error", err.Error()),
			slog.String("operation_id", op.ID.String()))
		return err
	}

	query := `
		INSERT INTO operations
			(id, operation_type, status, result, error_message, parent_operation_id, retry_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		op.ID,
		op.Type,
		op.Status,
		nullableJSON(op.Result),
		nullableString(op.ErrorMessage),
		op.ParentOperationID,
		op.RetryCount,
		op.CreatedAt,
		op.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during operation creation",
				slog.String("error", err.Error()),
				slog.String("operation_id", op.ID.String()))
			return fmt.Errorf("%w: parent operation not found", store.ErrInvalidEntity)
		}

		log.Error("failed to create operation",
			slog.String("error", err.Error()),
			slog.String("operation_id", op.ID.String()))
		return MapError(err)
	}

	log.Debug("operation created",
		slog.String("operation_id", op.ID.String()),
		slog.String("operation_type", string(op.Type)))
	return nil
}

// GetByID implements store.OperationStore.GetByID
func (s *PostgresOperationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Operation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, operation_type, status, result, error_message, parent_operation_id, retry_count, created_at, updated_at
		FROM operations
		WHERE id = $1
	`

	var op domain.Operation
	var result []byte
	var errorMessage sql.NullString
	var parentID uuid.NullUUID

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&op.ID,
		&op.Type,
		&op.Status,
		&result,
		&errorMessage,
		&parentID,
		&op.RetryCount,
		&op.CreatedAt,
		&op.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("operation not found", slog.String("operation_id", id.String()))
			return nil, store.ErrOperationNotFound
		}
		log.Error("failed to get operation by ID",
			slog.String("error", err.Error()),
			slog.String("operation_id", id.String()))
		return nil, err
	}

	op.Result = result
	op.ErrorMessage = errorMessage.String
	if parentID.Valid {
		op.ParentOperationID = &parentID.UUID
	}

	return &op, nil
}

// MarkProcessing implements store.OperationStore.MarkProcessing
func (s *PostgresOperationStore) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE operations
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`
	return s.guardedUpdate(ctx, id, "mark processing", query,
		domain.OperationStatusProcessing, time.Now().UTC(), id, domain.OperationStatusPending)
}

// Complete implements store.OperationStore.Complete
func (s *PostgresOperationStore) Complete(ctx context.Context, id uuid.UUID, result json.RawMessage) error {
	if len(result) == 0 {
		return domain.ErrEmptyOperationResult
	}

	query := `
		UPDATE operations
		SET status = $1, result = $2, updated_at = $3
		WHERE id = $4 AND status IN ($5, $6)
	`
	return s.guardedUpdate(ctx, id, "complete", query,
		domain.OperationStatusCompleted, []byte(result), time.Now().UTC(),
		id, domain.OperationStatusPending, domain.OperationStatusProcessing)
}

// Fail implements store.OperationStore.Fail
func (s *PostgresOperationStore) Fail(ctx context.Context, id uuid.UUID, errorMessage string) error {
	if errorMessage == "" {
		return domain.ErrEmptyOperationError
	}

	query := `
		UPDATE operations
		SET status = $1, error_message = $2, updated_at = $3
		WHERE id = $4 AND status IN ($5, $6)
	`
	return s.guardedUpdate(ctx, id, "fail", query,
		domain.OperationStatusFailed, errorMessage, time.Now().UTC(),
		id, domain.OperationStatusPending, domain.OperationStatusProcessing)
}

// guardedUpdate runs a status-guarded UPDATE. When no row is changed it
// distinguishes a missing operation (ErrOperationNotFound) from a guard
// rejection (ErrUpdateFailed), so a late writer observes that the outcome
// was already settled instead of silently overwriting it.
func (s *PostgresOperationStore) guardedUpdate(
	ctx context.Context,
	id uuid.UUID,
	operation string,
	query string,
	args ...any,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update operation status",
			slog.String("error", err.Error()),
			slog.String("operation_id", id.String()),
			slog.String("update", operation))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		var status domain.OperationStatus
		err := s.db.QueryRowContext(ctx, `SELECT status FROM operations WHERE id = $1`, id).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrOperationNotFound
		}
		if err != nil {
			return err
		}

		log.Warn("status guard rejected operation update",
			slog.String("operation_id", id.String()),
			slog.String("update", operation),
			slog.String("current_status", string(status)))
		return fmt.Errorf("%w: operation already %s", store.ErrUpdateFailed, status)
	}

	log.Debug("operation status updated",
		slog.String("operation_id", id.String()),
		slog.String("update", operation))
	return nil
}

// WithTx implements store.OperationStore.WithTx
func (s *PostgresOperationStore) WithTx(tx *sql.Tx) store.OperationStore {
	return &PostgresOperationStore{
		db:     tx,
		logger: s.logger,
	}
}

// nullableJSON converts an empty payload to NULL.
func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}

// nullableString converts an empty string to NULL.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
