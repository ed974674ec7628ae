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

// Common errors
var (
	ErrNilSessionStore = errors.New("session store cannot be nil")
	ErrNilMessageStore = errors.New("message store cannot be nil")
	ErrNilGenerator    = errors.New("generator cannot be nil")
	ErrNilLogger       = errors.New("logger cannot be nil")
	ErrEmptyOperation  = errors.New("operation ID cannot be empty")
	ErrEmptySession    = errors.New("session ID cannot be empty")
)

// questionResult is the operation result payload for question generation.
type questionResult struct {
	QuestionText string `json:"question_text"`
	QuestionType string `json:"question_type"`
}

// QuestionGenerationTask generates the next interview question for a
// session, appends it to the transcript and advances the session's question
// counter, all committed together with the operation result.
type QuestionGenerationTask struct {
	operationID uuid.UUID
	sessionID   uuid.UUID
	sessions    store.SessionStore
	messages    store.MessageStore
	generator   llm.Generator
	logger      *slog.Logger
}

// NewQuestionGenerationTask creates a new question generation task.
func NewQuestionGenerationTask(
	operationID uuid.UUID,
	sessionID uuid.UUID,
	sessions store.SessionStore,
	messages store.MessageStore,
	generator llm.Generator,
	logger *slog.Logger,
) (*QuestionGenerationTask, error) {
	if sessions == nil {
		return nil, ErrNilSessionStore
	}
	if messages == nil {
		return nil, ErrNilMessageStore
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

	return &QuestionGenerationTask{
		operationID: operationID,
		sessionID:   sessionID,
		sessions:    sessions,
		messages:    messages,
		generator:   generator,
		logger: logger.With(
			"task_type", domain.OperationTypeQuestionGeneration,
			"session_id", sessionID,
		),
	}, nil
}

// OperationID returns the operation this task reports into.
func (t *QuestionGenerationTask) OperationID() uuid.UUID {
	return t.operationID
}

// OperationType returns the operation type.
func (t *QuestionGenerationTask) OperationType() domain.OperationType {
	return domain.OperationTypeQuestionGeneration
}

// Execute generates the question and prepares the transcript side effect.
func (t *QuestionGenerationTask) Execute(ctx context.Context) (*Outcome, error) {
	sctx, err := t.loadContext(ctx)
	if err != nil {
		return nil, err
	}

	// Rounds are 1-indexed; the counter holds questions already asked.
	round := sctx.Session.CurrentQuestionNumber + 1
	questionType := domain.QuestionTypeForRound(round)

	prompt := buildQuestionPrompt(sctx, questionType)

	t.logger.Info("generating question",
		"question_type", questionType,
		"round", round)

	questionText, err := t.generator.GenerateText(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("question generation failed: %w", err)
	}

	message, err := domain.NewQuestionMessage(t.sessionID, questionText, questionType)
	if err != nil {
		return nil, WrapFailure(CodeUnexpectedError, "generated question is not storable", err)
	}

	result, err := json.Marshal(questionResult{
		QuestionText: questionText,
		QuestionType: string(questionType),
	})
	if err != nil {
		return nil, WrapFailure(CodeUnexpectedError, "failed to encode question result", err)
	}

	return &Outcome{
		Result: result,
		Apply: func(ctx context.Context, tx *sql.Tx) error {
			if err := t.messages.WithTx(tx).Create(ctx, message); err != nil {
				return err
			}
			return t.sessions.WithTx(tx).IncrementQuestionNumber(ctx, t.sessionID)
		},
	}, nil
}

// loadContext loads the session bundle, translating store errors into the
// typed failures the runner renders for the user.
func (t *QuestionGenerationTask) loadContext(ctx context.Context) (*domain.SessionContext, error) {
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
	return sctx, nil
}

// questionTypeInstructions guide the model per question kind.
var questionTypeInstructions = map[domain.QuestionType]string{
	domain.QuestionTypeTechnical:   "Generate a technical interview question that tests specific skills, knowledge, or problem-solving ability relevant to the job requirements. If the candidate's resume is available, reference their background to make the question more personalized.",
	domain.QuestionTypeBehavioral:  "Generate a behavioral interview question using the STAR format (Situation, Task, Action, Result). Ask about past experiences that demonstrate skills relevant to the job. If the candidate's resume is available, reference specific experiences mentioned.",
	domain.QuestionTypeSituational: "Generate a situational interview question presenting a hypothetical scenario related to the job role. Ask how the candidate would handle it. If the candidate's resume is available, make the scenario relevant to their experience level.",
}

// buildQuestionPrompt assembles the dual-context prompt: the job posting on
// one side, the candidate's resume (when present) on the other.
func buildQuestionPrompt(sctx *domain.SessionContext, questionType domain.QuestionType) string {
	posting := sctx.JobPosting

	var b strings.Builder

	b.WriteString("You are an expert technical interviewer. Generate ONE interview question based on the context below.")
	if posting.Language == "ua" {
		b.WriteString("\n\n**IMPORTANT: Generate the question in UKRAINIAN language. The entire question must be in Ukrainian.**")
	} else {
		b.WriteString("\n\n**IMPORTANT: Generate the question in ENGLISH language.**")
	}

	b.WriteString("\n\n**Job Role:**\n")
	b.WriteString(posting.Title)
	if posting.Company != "" {
		b.WriteString(" at " + posting.Company)
	}

	b.WriteString("\n\n**Job Description:**\n")
	b.WriteString(posting.Description)
	if posting.TechStack != "" {
		b.WriteString("\nTech Stack: " + posting.TechStack)
	}
	if posting.ExperienceLevel != "" {
		b.WriteString("\nExperience Level: " + posting.ExperienceLevel)
	}

	b.WriteString("\n\n**Candidate Background:**\n")
	if sctx.Resume != nil {
		b.WriteString(sctx.Resume.Content)
	} else {
		b.WriteString("(No resume provided - generate question based on job requirements only)")
	}

	b.WriteString("\n\n**Task:**\n")
	b.WriteString(questionTypeInstructions[questionType])

	b.WriteString("\n\n**Requirements:**\n")
	b.WriteString("- Generate exactly ONE clear, specific question\n")
	b.WriteString("- The question should be interview-ready (no meta-text or explanations)\n")
	b.WriteString("- Make it relevant to both the job requirements and candidate's background\n")
	b.WriteString("- Appropriate difficulty for the experience level\n")
	b.WriteString("- Question should be open-ended to encourage detailed responses\n")
	b.WriteString("\nGenerate the question now:")

	return b.String()
}
