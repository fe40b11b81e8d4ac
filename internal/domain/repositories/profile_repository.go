package repositories

import (
	"context"

	"github.com/zatekoja/matchsafe/internal/domain/entities"
)

// ProfileFilter holds filter criteria for listing profiles
type ProfileFilter struct {
	ActiveOnly bool
	Limit      int
	Offset     int
}

// ProfileRepository defines the interface for profile persistence
type ProfileRepository interface {
	// Create creates a new profile
	Create(ctx context.Context, profile *entities.Profile) error

	// GetByID retrieves a profile by ID
	GetByID(ctx context.Context, id string) (*entities.Profile, error)

	// GetByIDs retrieves multiple profiles by IDs, preserving the order of ids
	GetByIDs(ctx context.Context, ids []string) ([]*entities.Profile, error)

	// Update updates a profile
	Update(ctx context.Context, profile *entities.Profile) error

	// List lists profiles matching the filter
	List(ctx context.Context, filter ProfileFilter) ([]*entities.Profile, error)
}
