package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the account that owns sessions, resumes and job postings.
// Authentication and credential management live outside this core.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
