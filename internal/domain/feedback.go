package domain

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for InterviewFeedback.
var (
	ErrEmptyFeedbackSessionID = errors.New("feedback session ID cannot be empty")
	ErrInvalidFeedbackScore   = errors.New("feedback score must be between 0 and 100")
)

// FeedbackAnalysisResult is the structured payload the feedback-analysis
// generation asks the model to produce. Its shape doubles as the Operation
// result for feedback operations.
type FeedbackAnalysisResult struct {
	TechnicalAccuracyScore    int      `json:"technical_accuracy_score"`
	CommunicationClarityScore int      `json:"communication_clarity_score"`
	ProblemSolvingScore       int      `json:"problem_solving_score"`
	RelevanceScore            int      `json:"relevance_score"`
	TechnicalFeedback         string   `json:"technical_feedback"`
	CommunicationFeedback     string   `json:"communication_feedback"`
	ProblemSolvingFeedback    string   `json:"problem_solving_feedback"`
	RelevanceFeedback         string   `json:"relevance_feedback"`
	OverallComments           string   `json:"overall_comments"`
	KnowledgeGaps             []string `json:"knowledge_gaps"`
	LearningRecommendations   []string `json:"learning_recommendations"`
}

// Validate checks the score ranges of the analysis result.
func (r *FeedbackAnalysisResult) Validate() error {
	scores := map[string]int{
		"technical_accuracy_score":    r.TechnicalAccuracyScore,
		"communication_clarity_score": r.CommunicationClarityScore,
		"problem_solving_score":       r.ProblemSolvingScore,
		"relevance_score":             r.RelevanceScore,
	}
	for name, score := range scores {
		if score < 0 || score > 100 {
			return fmt.Errorf("%w: %s=%d", ErrInvalidFeedbackScore, name, score)
		}
	}
	return nil
}

// OverallScore is the rounded mean of the four dimension scores.
func (r *FeedbackAnalysisResult) OverallScore() int {
	sum := r.TechnicalAccuracyScore + r.CommunicationClarityScore +
		r.ProblemSolvingScore + r.RelevanceScore
	return int(math.Round(float64(sum) / 4))
}

// InterviewFeedback is the persisted feedback record for a session. At most
// one feedback row exists per session, enforced by a unique constraint.
type InterviewFeedback struct {
	ID                        uuid.UUID `json:"id"`
	SessionID                 uuid.UUID `json:"session_id"`
	TechnicalAccuracyScore    int       `json:"technical_accuracy_score"`
	CommunicationClarityScore int       `json:"communication_clarity_score"`
	ProblemSolvingScore       int       `json:"problem_solving_score"`
	RelevanceScore            int       `json:"relevance_score"`
	OverallScore              int       `json:"overall_score"`
	TechnicalFeedback         string    `json:"technical_feedback"`
	CommunicationFeedback     string    `json:"communication_feedback"`
	ProblemSolvingFeedback    string    `json:"problem_solving_feedback"`
	RelevanceFeedback         string    `json:"relevance_feedback"`
	OverallComments           string    `json:"overall_comments"`
	KnowledgeGaps             []string  `json:"knowledge_gaps"`
	LearningRecommendations   []string  `json:"learning_recommendations"`
	CreatedAt                 time.Time `json:"created_at"`
}

// NewInterviewFeedback creates a feedback record for a session from a
// validated analysis result.
func NewInterviewFeedback(sessionID uuid.UUID, result *FeedbackAnalysisResult) (*InterviewFeedback, error) {
	if sessionID == uuid.Nil {
		return nil, ErrEmptyFeedbackSessionID
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}

	return &InterviewFeedback{
		ID:                        uuid.New(),
		SessionID:                 sessionID,
		TechnicalAccuracyScore:    result.TechnicalAccuracyScore,
		CommunicationClarityScore: result.CommunicationClarityScore,
		ProblemSolvingScore:       result.ProblemSolvingScore,
		RelevanceScore:            result.RelevanceScore,
		OverallScore:              result.OverallScore(),
		TechnicalFeedback:         result.TechnicalFeedback,
		CommunicationFeedback:     result.CommunicationFeedback,
		ProblemSolvingFeedback:    result.ProblemSolvingFeedback,
		RelevanceFeedback:         result.RelevanceFeedback,
		OverallComments:           result.OverallComments,
		KnowledgeGaps:             result.KnowledgeGaps,
		LearningRecommendations:   result.LearningRecommendations,
		CreatedAt:                 time.Now().UTC(),
	}, nil
}
