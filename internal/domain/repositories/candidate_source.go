package repositories

import (
	"context"

	"github.com/zatekoja/matchsafe/internal/domain/entities"
)

// CandidateParams holds retrieval criteria for a candidate recall pass.
type CandidateParams struct {
	// RequesterID is excluded from the returned pool.
	RequesterID string
	// Interests bias recall toward profiles sharing these facets.
	Interests []string
	// Limit bounds the size of the returned pool.
	Limit int
}

// CandidateSource defines the upstream retrieval step that hands raw,
// ordered candidates to the matching pipeline.
type CandidateSource interface {
	// Retrieve returns candidate profiles in relevance order.
	Retrieve(ctx context.Context, params CandidateParams) ([]*entities.Profile, error)
}
