package evaluation

import (
	"github.com/zatekoja/matchsafe/internal/application/services"
	"github.com/zatekoja/matchsafe/internal/domain/entities"
)

// SafetyViolations counts candidates that were expected to be excluded but
// appear in the recommended set anyway. Any value above zero is a failure.
func SafetyViolations(expectedExcluded, recommended []string) int {
	excludedSet := make(map[string]struct{}, len(expectedExcluded))
	for _, id := range expectedExcluded {
		excludedSet[id] = struct{}{}
	}

	violations := 0
	for _, id := range recommended {
		if _, ok := excludedSet[id]; ok {
			violations++
		}
	}

	return violations
}

// ExclusionRecall computes the fraction of expected exclusions the safeguard
// actually caught. Returns 1.0 when nothing was expected to be excluded.
func ExclusionRecall(expectedExcluded, actualExcluded []string) float64 {
	if len(expectedExcluded) == 0 {
		return 1.0
	}

	actualSet := make(map[string]struct{}, len(actualExcluded))
	for _, id := range actualExcluded {
		actualSet[id] = struct{}{}
	}

	caught := 0
	for _, id := range expectedExcluded {
		if _, ok := actualSet[id]; ok {
			caught++
		}
	}

	return float64(caught) / float64(len(expectedExcluded))
}

// IntraListDistance computes the average pairwise distance across a
// recommendation list. Higher values mean a more diverse result set.
// Returns 0.0 for lists with fewer than two profiles.
func IntraListDistance(profiles []*entities.Profile, dist services.DistanceFunc) float64 {
	n := len(profiles)
	if n < 2 {
		return 0.0
	}

	total := 0.0
	pairs := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			total += dist(profiles[i], profiles[j])
			pairs++
		}
	}

	return total / float64(pairs)
}
