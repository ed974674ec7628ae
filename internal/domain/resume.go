package domain

import (
	"time"

	"github.com/google/uuid"
)

// Resume is the candidate's resume text, used to personalize generated
// questions and ground feedback analysis.
type Resume struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
