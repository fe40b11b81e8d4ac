package repositories

import (
	"context"

	"github.com/zatekoja/matchsafe/internal/domain/entities"
)

// FeedbackRepository defines the interface for feedback persistence
type FeedbackRepository interface {
	// Create stores a feedback record
	Create(ctx context.Context, feedback *entities.Feedback) error
}
