package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nickunderhill/ai-interviewer/internal/domain"
	"github.com/nickunderhill/ai-interviewer/internal/platform/logger"
	"github.com/nickunderhill/ai-interviewer/internal/store"
)

// PostgresSessionStore implements the store.SessionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSessionStore creates a new PostgreSQL implementation of the
// SessionStore interface.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Ensure PostgresSessionStore implements store.SessionStore interface
var _ store.SessionStore = (*PostgresSessionStore)(nil)

// GetByID implements store.SessionStore.GetByID
func (s *PostgresSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.InterviewSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, job_posting_id, current_question_number, created_at, updated_at
		FROM interview_sessions
		WHERE id = $1
	`

	var session domain.InterviewSession
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID,
		&session.UserID,
		&session.JobPostingID,
		&session.CurrentQuestionNumber,
		&session.CreatedAt,
		&session.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("session not found", slog.String("session_id", id.String()))
			return nil, store.ErrSessionNotFound
		}
		log.Error("failed to get session by ID",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return nil, err
	}

	return &session, nil
}

// GetContext implements store.SessionStore.GetContext. It loads the session
// and its related records in one round trip each, inside whatever DBTX the
// store is bound to.
func (s *PostgresSessionStore) GetContext(ctx context.Context, sessionID uuid.UUID) (*domain.SessionContext, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := s.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	user, err := s.getUser(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	jobPosting, err := s.getJobPosting(ctx, session.JobPostingID)
	if err != nil {
		return nil, err
	}

	resume, err := s.getResume(ctx, session.UserID)
	if err != nil && !errors.Is(err, store.ErrResumeNotFound) {
		return nil, err
	}

	log.Debug("session context loaded",
		slog.String("session_id", sessionID.String()),
		slog.Bool("has_resume", resume != nil))

	return &domain.SessionContext{
		Session:    session,
		JobPosting: jobPosting,
		User:       user,
		Resume:     resume,
	}, nil
}

// IncrementQuestionNumber implements store.SessionStore.IncrementQuestionNumber
func (s *PostgresSessionStore) IncrementQuestionNumber(ctx context.Context, sessionID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE interview_sessions
		SET current_question_number = current_question_number + 1, updated_at = $1
		WHERE id = $2
	`
	result, err := s.db.ExecContext(ctx, query, time.Now().UTC(), sessionID)
	if err != nil {
		log.Error("failed to increment question number",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrSessionNotFound)
}

func (s *PostgresSessionStore) getUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, email, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user domain.User
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&user.ID,
		&user.Email,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}

	return &user, nil
}

func (s *PostgresSessionStore) getJobPosting(ctx context.Context, id uuid.UUID) (*domain.JobPosting, error) {
	query := `
		SELECT id, user_id, title, company, description, tech_stack, experience_level, language, created_at, updated_at
		FROM job_postings
		WHERE id = $1
	`

	var posting domain.JobPosting
	var company, techStack, experienceLevel sql.NullString
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&posting.ID,
		&posting.UserID,
		&posting.Title,
		&company,
		&posting.Description,
		&techStack,
		&experienceLevel,
		&posting.Language,
		&posting.CreatedAt,
		&posting.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrJobPostingNotFound
		}
		return nil, fmt.Errorf("failed to load job posting: %w", err)
	}

	posting.Company = company.String
	posting.TechStack = techStack.String
	posting.ExperienceLevel = experienceLevel.String

	return &posting, nil
}

func (s *PostgresSessionStore) getResume(ctx context.Context, userID uuid.UUID) (*domain.Resume, error) {
	query := `
		SELECT id, user_id, content, created_at, updated_at
		FROM resumes
		WHERE user_id = $1
		ORDER BY updated_at DESC
		LIMIT 1
	`

	var resume domain.Resume
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&resume.ID,
		&resume.UserID,
		&resume.Content,
		&resume.CreatedAt,
		&resume.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrResumeNotFound
		}
		return nil, fmt.Errorf("failed to load resume: %w", err)
	}

	return &resume, nil
}

// WithTx implements store.SessionStore.WithTx
func (s *PostgresSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return &PostgresSessionStore{
		db:     tx,
		logger: s.logger,
	}
}
