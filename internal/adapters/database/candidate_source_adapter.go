package database

import (
	"context"

	"github.com/zatekoja/matchsafe/internal/domain/entities"
	"github.com/zatekoja/matchsafe/internal/domain/repositories"
)

// CandidateSourceAdapter is a fallback candidate source backed directly by
// the profile store. It returns active profiles in storage order with no
// relevance scores, for deployments where the search backend is unavailable.
type CandidateSourceAdapter struct {
	profiles repositories.ProfileRepository
}

// NewCandidateSourceAdapter creates a profile-store backed candidate source.
func NewCandidateSourceAdapter(profiles repositories.ProfileRepository) repositories.CandidateSource {
	return &CandidateSourceAdapter{profiles: profiles}
}

// Retrieve lists active profiles and drops the requester from the pool.
func (a *CandidateSourceAdapter) Retrieve(ctx context.Context, params repositories.CandidateParams) ([]*entities.Profile, error) {
	// Fetch one extra row so the pool stays full after the requester is removed.
	listed, err := a.profiles.List(ctx, repositories.ProfileFilter{
		ActiveOnly: true,
		Limit:      params.Limit + 1,
	})
	if err != nil {
		return nil, err
	}

	pool := make([]*entities.Profile, 0, len(listed))
	for _, p := range listed {
		if p.ID == params.RequesterID {
			continue
		}
		pool = append(pool, p)
		if params.Limit > 0 && len(pool) == params.Limit {
			break
		}
	}

	return pool, nil
}
