package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/nickunderhill/ai-interviewer/internal/domain"
)

// OperationResponse is the wire representation of an operation for status
// polling. Result is raw JSON so the client receives exactly what the task
// produced; ErrorMessage is already rendered and masked.
type OperationResponse struct {
	ID                uuid.UUID       `json:"id"`
	Type              string          `json:"operation_type"`
	Status            string          `json:"status"`
	Result            json.RawMessage `json:"result,omitempty"`
	ErrorMessage      string          `json:"error_message,omitempty"`
	ParentOperationID *uuid.UUID      `json:"parent_operation_id,omitempty"`
	RetryCount        int             `json:"retry_count"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// NewOperationResponse converts a domain Operation to its wire form.
func NewOperationResponse(op *domain.Operation) OperationResponse {
	return OperationResponse{
		ID:                op.ID,
		Type:              string(op.Type),
		Status:            string(op.Status),
		Result:            op.Result,
		ErrorMessage:      op.ErrorMessage,
		ParentOperationID: op.ParentOperationID,
		RetryCount:        op.RetryCount,
		CreatedAt:         op.CreatedAt,
		UpdatedAt:         op.UpdatedAt,
	}
}

// OperationAcceptedResponse is returned when an asynchronous generation has
// been accepted. The client polls the operation endpoint for the outcome.
type OperationAcceptedResponse struct {
	Operation OperationResponse `json:"operation"`
}

// FeedbackResponse is the wire representation of stored interview feedback.
type FeedbackResponse struct {
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

// NewFeedbackResponse converts a domain InterviewFeedback to its wire form.
func NewFeedbackResponse(feedback *domain.InterviewFeedback) FeedbackResponse {
	return FeedbackResponse{
		ID:                        feedback.ID,
		SessionID:                 feedback.SessionID,
		TechnicalAccuracyScore:    feedback.TechnicalAccuracyScore,
		CommunicationClarityScore: feedback.CommunicationClarityScore,
		ProblemSolvingScore:       feedback.ProblemSolvingScore,
		RelevanceScore:            feedback.RelevanceScore,
		OverallScore:              feedback.OverallScore,
		TechnicalFeedback:         feedback.TechnicalFeedback,
		CommunicationFeedback:     feedback.CommunicationFeedback,
		ProblemSolvingFeedback:    feedback.ProblemSolvingFeedback,
		RelevanceFeedback:         feedback.RelevanceFeedback,
		OverallComments:           feedback.OverallComments,
		KnowledgeGaps:             feedback.KnowledgeGaps,
		LearningRecommendations:   feedback.LearningRecommendations,
		CreatedAt:                 feedback.CreatedAt,
	}
}
