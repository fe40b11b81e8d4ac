package entities

import (
	"time"
)

// Feedback represents a user's reaction to a recommendation.
type Feedback struct {
	ID          string    `json:"id" db:"id"`
	RequesterID string    `json:"requester_id" db:"requester_id"`
	CandidateID string    `json:"candidate_id" db:"candidate_id"`
	Rating      int       `json:"rating" db:"rating"` // 1-5
	Message     string    `json:"message" db:"message"`
	UserAgent   string    `json:"user_agent" db:"user_agent"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
