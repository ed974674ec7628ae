package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for InterviewSession.
var (
	ErrEmptySessionID         = errors.New("session ID cannot be empty")
	ErrEmptySessionUserID     = errors.New("session user ID cannot be empty")
	ErrEmptySessionJobPosting = errors.New("session job posting ID cannot be empty")
)

// InterviewSession represents one practice interview between a user and the
// generated interviewer for a specific job posting. This core only reads
// sessions; their CRUD lifecycle belongs to the surrounding API layer.
type InterviewSession struct {
	ID                    uuid.UUID `json:"id"`
	UserID                uuid.UUID `json:"user_id"`
	JobPostingID          uuid.UUID `json:"job_posting_id"`
	CurrentQuestionNumber int       `json:"current_question_number"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// Validate checks if the InterviewSession has valid data.
func (s *InterviewSession) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptySessionID
	}
	if s.UserID == uuid.Nil {
		return ErrEmptySessionUserID
	}
	if s.JobPostingID == uuid.Nil {
		return ErrEmptySessionJobPosting
	}
	return nil
}

// SessionContext bundles a session with the related records a generation
// needs: the job posting being interviewed for and the candidate's resume.
// Resume may be nil when the user has not uploaded one.
type SessionContext struct {
	Session    *InterviewSession
	JobPosting *JobPosting
	User       *User
	Resume     *Resume
}
