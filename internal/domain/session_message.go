package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MessageType distinguishes interviewer questions from candidate answers.
type MessageType string

// Possible message type values.
const (
	MessageTypeQuestion MessageType = "question"
	MessageTypeAnswer   MessageType = "answer"
)

// QuestionType classifies a generated question. Question generation rotates
// through these in order, one per interview round.
type QuestionType string

// Possible question type values.
const (
	QuestionTypeTechnical   QuestionType = "technical"
	QuestionTypeBehavioral  QuestionType = "behavioral"
	QuestionTypeSituational QuestionType = "situational"
)

// Common validation errors for SessionMessage.
var (
	ErrEmptyMessageSessionID = errors.New("message session ID cannot be empty")
	ErrEmptyMessageContent   = errors.New("message content cannot be empty")
	ErrInvalidMessageType    = errors.New("invalid message type")
)

// SessionMessage is one entry in a session's transcript: either a generated
// interview question or the candidate's answer to one.
type SessionMessage struct {
	ID           uuid.UUID   `json:"id"`
	SessionID    uuid.UUID   `json:"session_id"`
	Type         MessageType `json:"message_type"`
	Content      string      `json:"content"`
	QuestionType string      `json:"question_type,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// NewQuestionMessage creates a transcript entry for a generated question.
func NewQuestionMessage(sessionID uuid.UUID, content string, questionType QuestionType) (*SessionMessage, error) {
	msg := &SessionMessage{
		ID:           uuid.New(),
		SessionID:    sessionID,
		Type:         MessageTypeQuestion,
		Content:      content,
		QuestionType: string(questionType),
		CreatedAt:    time.Now().UTC(),
	}

	if err := msg.Validate(); err != nil {
		return nil, err
	}

	return msg, nil
}

// Validate checks if the SessionMessage has valid data.
func (m *SessionMessage) Validate() error {
	if m.SessionID == uuid.Nil {
		return ErrEmptyMessageSessionID
	}
	if m.Content == "" {
		return ErrEmptyMessageContent
	}
	if m.Type != MessageTypeQuestion && m.Type != MessageTypeAnswer {
		return ErrInvalidMessageType
	}
	return nil
}

// QuestionTypeForRound returns the question type for a 1-indexed round,
// cycling technical -> behavioral -> situational.
func QuestionTypeForRound(round int) QuestionType {
	types := []QuestionType{QuestionTypeTechnical, QuestionTypeBehavioral, QuestionTypeSituational}
	if round < 1 {
		return types[0]
	}
	return types[(round-1)%len(types)]
}
