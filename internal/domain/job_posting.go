package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobPosting holds the role description a session interviews for.
// Company, TechStack and ExperienceLevel are optional free-form fields.
type JobPosting struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	Title           string    `json:"title"`
	Company         string    `json:"company,omitempty"`
	Description     string    `json:"description"`
	TechStack       string    `json:"tech_stack,omitempty"`
	ExperienceLevel string    `json:"experience_level,omitempty"`
	Language        string    `json:"language"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
