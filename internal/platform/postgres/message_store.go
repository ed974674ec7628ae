package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nickunderhill/ai-interviewer/internal/domain"
	"github.com/nickunderhill/ai-interviewer/internal/platform/logger"
	"github.com/nickunderhill/ai-interviewer/internal/store"
)

// PostgresMessageStore implements the store.MessageStore interface
// using a PostgreSQL database as the storage backend.
type PostgresMessageStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresMessageStore creates a new PostgreSQL implementation of the
// MessageStore interface.
func NewPostgresMessageStore(db store.DBTX, logger *slog.Logger) *PostgresMessageStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresMessageStore{
		db:     db,
		logger: logger.With(slog.String("component", "message_store")),
	}
}

// Ensure PostgresMessageStore implements store.MessageStore interface
var _ store.MessageStore = (*PostgresMessageStore)(nil)

// Create implements store.MessageStore.Create
func (s *PostgresMessageStore) Create(ctx context.Context, msg *domain.SessionMessage) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := msg.Validate(); err != nil {
		log.Warn("message validation failed during create",
			slog.String("error", err.Error()),
			slog.String("session_id", msg.SessionID.String()))
		return err
	}

	query := `
		INSERT INTO session_messages (id, session_id, message_type, content, question_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		msg.ID,
		msg.SessionID,
		msg.Type,
		msg.Content,
		nullableString(msg.QuestionType),
		msg.CreatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: session with ID %s not found",
				store.ErrInvalidEntity, msg.SessionID)
		}

		log.Error("failed to create session message",
			slog.String("error", err.Error()),
			slog.String("session_id", msg.SessionID.String()))
		return MapError(err)
	}

	return nil
}

// ListBySession implements store.MessageStore.ListBySession
func (s *PostgresMessageStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.SessionMessage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, session_id, message_type, content, question_type, created_at
		FROM session_messages
		WHERE session_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		log.Error("failed to list session messages",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID.String()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var messages []*domain.SessionMessage
	for rows.Next() {
		var msg domain.SessionMessage
		var questionType sql.NullString

		if err := rows.Scan(
			&msg.ID,
			&msg.SessionID,
			&msg.Type,
			&msg.Content,
			&questionType,
			&msg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan session message row: %w", err)
		}

		msg.QuestionType = questionType.String
		messages = append(messages, &msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating session message rows: %w", err)
	}

	return messages, nil
}

// CountAnswers implements store.MessageStore.CountAnswers
func (s *PostgresMessageStore) CountAnswers(ctx context.Context, sessionID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM session_messages
		WHERE session_id = $1 AND message_type = $2
	`

	var count int
	err := s.db.QueryRowContext(ctx, query, sessionID, domain.MessageTypeAnswer).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count session answers: %w", err)
	}

	return count, nil
}

// WithTx implements store.MessageStore.WithTx
func (s *PostgresMessageStore) WithTx(tx *sql.Tx) store.MessageStore {
	return &PostgresMessageStore{
		db:     tx,
		logger: s.logger,
	}
}
