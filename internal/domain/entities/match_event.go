package entities

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// MatchEventType represents the type of match pipeline event
type MatchEventType string

const (
	MatchEventTypeRecommended MatchEventType = "recommended"
	MatchEventTypeExcluded    MatchEventType = "excluded"
)

// MatchEvent represents a single matching interaction for analytics and
// real-time consumers. One event is emitted per pipeline pass, carrying
// the surviving candidate IDs and the exclusion audit.
type MatchEvent struct {
	ID             string          `json:"id" db:"id"`
	EventType      MatchEventType  `json:"event_type" db:"event_type"`
	RequesterID    string          `json:"requester_id" db:"requester_id"`
	CandidateCount int             `json:"candidate_count" db:"candidate_count"`
	RecommendedIDs []string        `json:"recommended_ids"`
	Exclusions     []Exclusion     `json:"exclusions,omitempty"`
	LatencyMs      int             `json:"latency_ms" db:"latency_ms"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// NewMatchEvent creates a new match event
func NewMatchEvent(eventType MatchEventType, requesterID string) *MatchEvent {
	return &MatchEvent{
		ID:          generateEventID(),
		EventType:   eventType,
		RequesterID: requesterID,
		CreatedAt:   time.Now(),
	}
}

// generateEventID generates a unique event ID
func generateEventID() string {
	return time.Now().Format("20060102150405") + "-" + randomString(8)
}

// randomString generates a random string of specified length
func randomString(length int) string {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp-based if crypto/rand fails
		return time.Now().Format("150405.000")
	}
	return hex.EncodeToString(bytes)[:length]
}
