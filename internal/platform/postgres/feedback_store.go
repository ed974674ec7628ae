package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nickunderhill/ai-interviewer/internal/domain"
	"github.com/nickunderhill/ai-interviewer/internal/platform/logger"
	"github.com/nickunderhill/ai-interviewer/internal/store"
)

// PostgresFeedbackStore implements the store.FeedbackStore interface
// using a PostgreSQL database as the storage backend.
type PostgresFeedbackStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFeedbackStore creates a new PostgreSQL implementation of the
// FeedbackStore interface.
func NewPostgresFeedbackStore(db store.DBTX, logger *slog.Logger) *PostgresFeedbackStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFeedbackStore{
		db:     db,
		logger: logger.With(slog.String("component", "feedback_store")),
	}
}

// Ensure PostgresFeedbackStore implements store.FeedbackStore interface
var _ store.FeedbackStore = (*PostgresFeedbackStore)(nil)

// Create implements store.FeedbackStore.Create. The unique constraint on
// session_id is the arbiter for duplicates; a violation surfaces as
// store.ErrFeedbackExists.
func (s *PostgresFeedbackStore) Create(ctx context.Context, feedback *domain.InterviewFeedback) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	knowledgeGaps, err := json.Marshal(feedback.KnowledgeGaps)
	if err != nil {
		return fmt.Errorf("failed to encode knowledge gaps: %w", err)
	}
	recommendations, err := json.Marshal(feedback.LearningRecommendations)
	if err != nil {
		return fmt.Errorf("failed to encode learning recommendations: %w", err)
	}

	query := `
		INSERT INTO interview_feedback
			(id, session_id, technical_accuracy_score, communication_clarity_score,
			 problem_solving_score, relevance_score, overall_score,
			 technical_feedback, communication_feedback, problem_solving_feedback,
			 relevance_feedback, overall_comments, knowledge_gaps, learning_recommendations,
			 created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		feedback.ID,
		feedback.SessionID,
		feedback.TechnicalAccuracyScore,
		feedback.CommunicationClarityScore,
		feedback.ProblemSolvingScore,
		feedback.RelevanceScore,
		feedback.OverallScore,
		feedback.TechnicalFeedback,
		feedback.CommunicationFeedback,
		feedback.ProblemSolvingFeedback,
		feedback.RelevanceFeedback,
		feedback.OverallComments,
		knowledgeGaps,
		recommendations,
		feedback.CreatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Info("feedback already exists for session",
				slog.String("session_id", feedback.SessionID.String()))
			return fmt.Errorf("%w: session %s", store.ErrFeedbackExists, feedback.SessionID)
		}
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: session with ID %s not found",
				store.ErrInvalidEntity, feedback.SessionID)
		}

		log.Error("failed to create interview feedback",
			slog.String("error", err.Error()),
			slog.String("session_id", feedback.SessionID.String()))
		return MapError(err)
	}

	log.Info("interview feedback created",
		slog.String("session_id", feedback.SessionID.String()),
		slog.Int("overall_score", feedback.OverallScore))
	return nil
}

// GetBySession implements store.FeedbackStore.GetBySession
func (s *PostgresFeedbackStore) GetBySession(ctx context.Context, sessionID uuid.UUID) (*domain.InterviewFeedback, error) {
	query := `
		SELECT id, session_id, technical_accuracy_score, communication_clarity_score,
		       problem_solving_score, relevance_score, overall_score,
		       technical_feedback, communication_feedback, problem_solving_feedback,
		       relevance_feedback, overall_comments, knowledge_gaps, learning_recommendations,
		       created_at
		FROM interview_feedback
		WHERE session_id = $1
	`

	var feedback domain.InterviewFeedback
	var knowledgeGaps, recommendations []byte

	err := s.db.QueryRowContext(ctx, query, sessionID).Scan(
		&feedback.ID,
		&feedback.SessionID,
		&feedback.TechnicalAccuracyScore,
		&feedback.CommunicationClarityScore,
		&feedback.ProblemSolvingScore,
		&feedback.RelevanceScore,
		&feedback.OverallScore,
		&feedback.TechnicalFeedback,
		&feedback.CommunicationFeedback,
		&feedback.ProblemSolvingFeedback,
		&feedback.RelevanceFeedback,
		&feedback.OverallComments,
		&knowledgeGaps,
		&recommendations,
		&feedback.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrFeedbackNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(knowledgeGaps, &feedback.KnowledgeGaps); err != nil {
		return nil, fmt.Errorf("failed to decode knowledge gaps: %w", err)
	}
	if err := json.Unmarshal(recommendations, &feedback.LearningRecommendations); err != nil {
		return nil, fmt.Errorf("failed to decode learning recommendations: %w", err)
	}

	return &feedback, nil
}

// WithTx implements store.FeedbackStore.WithTx
func (s *PostgresFeedbackStore) WithTx(tx *sql.Tx) store.FeedbackStore {
	return &PostgresFeedbackStore{
		db:     tx,
		logger: s.logger,
	}
}
