package task

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/nickunderhill/ai-interviewer/internal/domain"
	"github.com/nickunderhill/ai-interviewer/internal/llm"
	"github.com/nickunderhill/ai-interviewer/internal/store"
)

// ErrNilFeedbackStore is returned when a feedback store is not provided.
var ErrNilFeedbackStore = errors.New("feedback store cannot be nil")

// qaPair is one question with the candidate's answer, if any.
type qaPair struct {
	Question string
	Answer   string
}

// feedbackResult is the operation result payload for feedback analysis:
// the validated analysis plus the derived overall score.
type feedbackResult struct {
	domain.FeedbackAnalysisResult
	OverallScore int `json:"overall_score"`
}

// FeedbackAnalysisTask analyzes a session transcript and produces scored
// feedback. The feedback row and the operation result commit together; the
// unique constraint on session_id keeps the analysis one-shot per session.
type FeedbackAnalysisTask struct {
	operationID uuid.UUID
	sessionID   uuid.UUID
	userID      uuid.UUID
	sessions    store.SessionStore
	messages    store.MessageStore
	feedback    store.FeedbackStore
	generator   llm.Generator
	logger      *slog.Logger
}

// NewFeedbackAnalysisTask creates a new feedback analysis task.
func NewFeedbackAnalysisTask(
	operationID uuid.UUID,
	sessionID uuid.UUID,
	userID uuid.UUID,
	sessions store.SessionStore,
	messages store.MessageStore,
	feedback store.FeedbackStore,
	generator llm.Generator,
	logger *slog.Logger,
) (*FeedbackAnalysisTask, error) {
	if sessions == nil {
		return nil, ErrNilSessionStore
	}
	if messages == nil {
		return nil, ErrNilMessageStore
	}
	if feedback == nil {
		return nil, ErrNilFeedbackStore
	}
	if generator == nil {
		return nil, ErrNilGenerator
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if operationID == uuid.Nil {
		return nil, ErrEmptyOperation
	}
	if sessionID == uuid.Nil {
		return nil, ErrEmptySession
	}

	return &FeedbackAnalysisTask{
		operationID: operationID,
		sessionID:   sessionID,
		userID:      userID,
		sessions:    sessions,
		messages:    messages,
		feedback:    feedback,
		generator:   generator,
		logger: logger.With(
			"task_type", domain.OperationTypeFeedbackAnalysis,
			"session_id", sessionID,
		),
	}, nil
}

// OperationID returns the operation this task reports into.
func (t *FeedbackAnalysisTask) OperationID() uuid.UUID {
	return t.operationID
}

// OperationType returns the operation type.
func (t *FeedbackAnalysisTask) OperationType() domain.OperationType {
	return domain.OperationTypeFeedbackAnalysis
}

// Execute analyzes the session and prepares the feedback side effect.
func (t *FeedbackAnalysisTask) Execute(ctx context.Context) (*Outcome, error) {
	sctx, err := t.loadContext(ctx)
	if err != nil {
		return nil, err
	}

	if sctx.Resume == nil {
		return nil, NewFailure(CodeResumeRequired, "resume is required for feedback analysis")
	}

	transcript, err := t.messages.ListBySession(ctx, t.sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session transcript: %w", err)
	}

	pairs := pairTranscript(transcript)
	if len(pairs) == 0 {
		return nil, NewFailure(CodeNoAnswers, "session has no Q&A pairs to analyze")
	}

	prompt := buildAnalysisPrompt(sctx.JobPosting, sctx.Resume.Content, pairs)

	t.logger.Info("analyzing session", "qa_pairs", len(pairs))

	raw, err := t.generator.GenerateText(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("feedback analysis failed: %w", err)
	}

	analysis, err := parseAnalysis(raw)
	if err != nil {
		return nil, WrapFailure(CodeFeedbackParseFailed, "AI feedback response could not be parsed", err)
	}

	record, err := domain.NewInterviewFeedback(t.sessionID, analysis)
	if err != nil {
		return nil, WrapFailure(CodeFeedbackParseFailed, "AI feedback response failed validation", err)
	}

	result, err := json.Marshal(feedbackResult{
		FeedbackAnalysisResult: *analysis,
		OverallScore:           record.OverallScore,
	})
	if err != nil {
		return nil, WrapFailure(CodeUnexpectedError, "failed to encode feedback result", err)
	}

	return &Outcome{
		Result: result,
		Apply: func(ctx context.Context, tx *sql.Tx) error {
			return t.feedback.WithTx(tx).Create(ctx, record)
		},
	}, nil
}

// loadContext loads the session bundle, translating store errors into typed
// failures. The session must belong to the requesting user.
func (t *FeedbackAnalysisTask) loadContext(ctx context.Context) (*domain.SessionContext, error) {
	sctx, err := t.sessions.GetContext(ctx, t.sessionID)
	switch {
	case errors.Is(err, store.ErrSessionNotFound):
		return nil, WrapFailure(CodeSessionNotFound, "session not found", err)
	case errors.Is(err, store.ErrUserNotFound):
		return nil, WrapFailure(CodeUserNotFound, "session user not found", err)
	case errors.Is(err, store.ErrJobPostingNotFound):
		return nil, WrapFailure(CodeJobPostingRequired, "session has no job posting", err)
	case err != nil:
		return nil, fmt.Errorf("failed to load session context: %w", err)
	}

	if t.userID != uuid.Nil && sctx.Session.UserID != t.userID {
		return nil, NewFailure(CodeSessionNotFound, "session does not belong to requesting user")
	}

	return sctx, nil
}

// pairTranscript folds the chronological transcript into question/answer
// pairs. An answer with no preceding question is dropped; a question with no
// answer keeps an empty answer slot.
func pairTranscript(transcript []*domain.SessionMessage) []qaPair {
	var pairs []qaPair
	for _, msg := range transcript {
		switch msg.Type {
		case domain.MessageTypeQuestion:
			pairs = append(pairs, qaPair{Question: msg.Content})
		case domain.MessageTypeAnswer:
			if len(pairs) > 0 {
				pairs[len(pairs)-1].Answer = msg.Content
			}
		}
	}
	return pairs
}

// parseAnalysis decodes the model's JSON reply, tolerating a fenced code
// block wrapper, and validates the score ranges.
func parseAnalysis(raw string) (*domain.FeedbackAnalysisResult, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var analysis domain.FeedbackAnalysisResult
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		return nil, err
	}
	if err := analysis.Validate(); err != nil {
		return nil, err
	}

	return &analysis, nil
}

// buildAnalysisPrompt assembles the scoring prompt from the job posting,
// resume and transcript.
func buildAnalysisPrompt(posting *domain.JobPosting, resumeContent string, pairs []qaPair) string {
	var b strings.Builder

	b.WriteString("You are an expert technical interviewer analyzing a candidate's interview performance.\n\n")

	b.WriteString("JOB POSTING:\n")
	b.WriteString("Title: " + posting.Title + "\n")
	b.WriteString("Company: " + orNotSpecified(posting.Company) + "\n")
	b.WriteString("Description: " + posting.Description + "\n")
	b.WriteString("Experience Level: " + orNotSpecified(posting.ExperienceLevel) + "\n")
	b.WriteString("Tech Stack: " + orNotSpecified(posting.TechStack) + "\n\n")

	b.WriteString("CANDIDATE'S RESUME:\n")
	b.WriteString(resumeContent)
	b.WriteString("\n\nINTERVIEW TRANSCRIPT:\n")

	for i, pair := range pairs {
		answer := pair.Answer
		if answer == "" {
			answer = "[No answer provided]"
		}
		fmt.Fprintf(&b, "Q%d: %s\nA%d: %s\n\n", i+1, pair.Question, i+1, answer)
	}

	b.WriteString(`Analyze this interview across 4 dimensions and provide scores (0-100) and detailed feedback for each:

1. Technical Accuracy: Correctness of technical concepts, algorithms, and implementation details
2. Communication Clarity: Ability to explain complex concepts clearly and structure responses
3. Problem-Solving Approach: Methodology, analytical thinking, and problem decomposition
4. Relevance to Job Requirements: Alignment with the job posting's requirements and tech stack

Also identify:
- Knowledge Gaps: Specific areas where the candidate showed weaknesses or lack of knowledge
- Learning Recommendations: Concrete suggestions for improvement with specific resources or topics

Respond ONLY with a JSON object (no markdown, no additional text) in this exact format:
{
  "technical_accuracy_score": 0,
  "communication_clarity_score": 0,
  "problem_solving_score": 0,
  "relevance_score": 0,
  "technical_feedback": "Detailed feedback on technical accuracy...",
  "communication_feedback": "Detailed feedback on communication clarity...",
  "problem_solving_feedback": "Detailed feedback on problem-solving approach...",
  "relevance_feedback": "Detailed feedback on relevance to job requirements...",
  "overall_comments": "Summary of overall performance...",
  "knowledge_gaps": ["Gap 1", "Gap 2", "Gap 3"],
  "learning_recommendations": ["Recommendation 1", "Recommendation 2", "Recommendation 3"]
}

Ensure all scores are integers between 0 and 100, and provide actionable, specific feedback.
`)

	return b.String()
}

// orNotSpecified substitutes a placeholder for empty optional fields.
func orNotSpecified(s string) string {
	if s == "" {
		return "Not specified"
	}
	return s
}
