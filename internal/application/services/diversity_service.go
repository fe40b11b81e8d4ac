package services

import (
	"fmt"

	"github.com/zatekoja/matchsafe/internal/domain/entities"
	apperrors "github.com/zatekoja/matchsafe/pkg/errors"
)

// DistanceFunc measures feature dissimilarity between two profiles in [0, 1].
type DistanceFunc func(a, b *entities.Profile) float64

// RelevanceFunc scores a candidate's relevance to the requester; higher wins
// the seed position. Supplied by the caller when upstream retrieval produced
// scores, otherwise the seed is the first candidate in input order.
type RelevanceFunc func(p *entities.Profile) float64

type selectConfig struct {
	distance  DistanceFunc
	relevance RelevanceFunc
}

// SelectOption customizes one SelectDiverse call.
type SelectOption func(*selectConfig)

// WithDistance overrides the default Jaccard facet distance.
func WithDistance(fn DistanceFunc) SelectOption {
	return func(c *selectConfig) {
		c.distance = fn
	}
}

// WithRelevance supplies a relevance score used to seed the selection.
func WithRelevance(fn RelevanceFunc) SelectOption {
	return func(c *selectConfig) {
		c.relevance = fn
	}
}

// JaccardDistance is the default distance: 1 minus the normalized overlap of
// the two profiles' categorical facets. Two profiles with no facets at all
// are treated as identical.
func JaccardDistance(a, b *entities.Profile) float64 {
	fa := a.Features.Facets()
	fb := b.Features.Facets()

	if len(fa) == 0 && len(fb) == 0 {
		return 0
	}

	shared := 0
	for facet := range fa {
		if _, ok := fb[facet]; ok {
			shared++
		}
	}

	union := len(fa) + len(fb) - shared
	return 1.0 - float64(shared)/float64(union)
}

// DiversityService produces a bounded recommendation list structured to
// avoid presenting many near-identical profiles. Stateless and safe for
// concurrent use.
type DiversityService struct{}

// NewDiversityService creates a new diversity service.
func NewDiversityService() *DiversityService {
	return &DiversityService{}
}

// SelectDiverse picks at most targetSize candidates by greedy farthest-point
// diversification: seed with the most relevant candidate, then repeatedly add
// the candidate with the largest minimum distance to the already-selected
// set. Ties always break toward original input order, so the output is
// deterministic for identical inputs.
//
// An empty candidate list is a valid input and yields an empty list, never
// an error. A non-positive targetSize fails before any candidate is touched.
func (s *DiversityService) SelectDiverse(candidates []*entities.Profile, targetSize int, opts ...SelectOption) ([]*entities.Profile, error) {
	cfg := selectConfig{distance: JaccardDistance}
	for _, opt := range opts {
		opt(&cfg)
	}

	if targetSize <= 0 {
		return nil, apperrors.NewConfigurationError(fmt.Sprintf("target size must be positive, got %d", targetSize))
	}
	if cfg.distance == nil {
		return nil, apperrors.NewConfigurationError("distance function must not be nil")
	}

	n := len(candidates)
	if n == 0 {
		return []*entities.Profile{}, nil
	}

	// No pruning when everything fits: discarding scarce candidates for
	// the sake of diversity would be worse than near-duplicates.
	if n <= targetSize {
		return candidates, nil
	}

	selected := make([]bool, n)
	result := make([]*entities.Profile, 0, targetSize)

	seed := s.seedIndex(candidates, cfg.relevance)
	selected[seed] = true
	result = append(result, candidates[seed])

	// minDist[i] is the distance from candidate i to its nearest selected
	// profile; updated incrementally as the selected set grows.
	minDist := make([]float64, n)
	for i := range candidates {
		if !selected[i] {
			minDist[i] = cfg.distance(candidates[i], candidates[seed])
		}
	}

	for len(result) < targetSize {
		best := -1
		for i := range candidates {
			if selected[i] {
				continue
			}
			// Strict greater keeps the earliest index on ties.
			if best == -1 || minDist[i] > minDist[best] {
				best = i
			}
		}
		if best == -1 {
			break
		}

		selected[best] = true
		result = append(result, candidates[best])

		for i := range candidates {
			if selected[i] {
				continue
			}
			if d := cfg.distance(candidates[i], candidates[best]); d < minDist[i] {
				minDist[i] = d
			}
		}
	}

	return result, nil
}

// seedIndex picks the highest-relevance candidate, first-in-order on ties or
// when no relevance function is supplied.
func (s *DiversityService) seedIndex(candidates []*entities.Profile, relevance RelevanceFunc) int {
	if relevance == nil {
		return 0
	}

	best := 0
	bestScore := relevance(candidates[0])
	for i := 1; i < len(candidates); i++ {
		if score := relevance(candidates[i]); score > bestScore {
			best = i
			bestScore = score
		}
	}
	return best
}
