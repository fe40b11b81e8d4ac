package repositories

import (
	"context"

	"github.com/zatekoja/matchsafe/internal/domain/entities"
)

// MatchEventRepository defines the interface for match analytics persistence
type MatchEventRepository interface {
	// LogEvent stores a match event
	LogEvent(ctx context.Context, event *entities.MatchEvent) error

	// GetEmptyResultRequests returns recent events whose pipeline pass
	// produced no recommendations
	GetEmptyResultRequests(ctx context.Context, limit int) ([]*entities.MatchEvent, error)
}
