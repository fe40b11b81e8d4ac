package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/matchsafe/internal/domain/entities"
	apperrors "github.com/zatekoja/matchsafe/pkg/errors"
)

func interestProfile(id string, interests ...string) *entities.Profile {
	return &entities.Profile{ID: id, Features: entities.Features{Interests: interests}}
}

func ids(profiles []*entities.Profile) []string {
	out := make([]string, len(profiles))
	for i, p := range profiles {
		out[i] = p.ID
	}
	return out
}

func TestSelectDiverse_ReturnsAllWhenInputFits(t *testing.T) {
	svc := NewDiversityService()

	candidates := []*entities.Profile{
		interestProfile("a", "hiking"),
		interestProfile("b", "hiking"),
	}

	result, err := svc.SelectDiverse(candidates, 5)

	require.NoError(t, err)
	assert.Equal(t, candidates, result)
}

func TestSelectDiverse_EmptyInputIsNotAnError(t *testing.T) {
	svc := NewDiversityService()

	result, err := svc.SelectDiverse(nil, 3)

	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestSelectDiverse_NonPositiveTargetSize(t *testing.T) {
	svc := NewDiversityService()

	_, err := svc.SelectDiverse([]*entities.Profile{interestProfile("a")}, 0)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConfiguration))

	_, err = svc.SelectDiverse([]*entities.Profile{interestProfile("a")}, -2)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConfiguration))
}

func TestSelectDiverse_NilDistanceFuncIsConfigurationError(t *testing.T) {
	svc := NewDiversityService()

	_, err := svc.SelectDiverse([]*entities.Profile{interestProfile("a")}, 1, WithDistance(nil))

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConfiguration))
}

func TestSelectDiverse_NeverExceedsTargetSize(t *testing.T) {
	svc := NewDiversityService()

	candidates := []*entities.Profile{
		interestProfile("a", "hiking"),
		interestProfile("b", "chess"),
		interestProfile("c", "cooking"),
		interestProfile("d", "sailing"),
	}

	result, err := svc.SelectDiverse(candidates, 2)

	require.NoError(t, err)
	assert.Len(t, result, 2)
}

func TestSelectDiverse_IdenticalProfilesPickedByInputOrder(t *testing.T) {
	svc := NewDiversityService()

	// 10 identical feature vectors: all distances tie at zero, so the
	// selector must fall back to input order, not fail.
	candidates := make([]*entities.Profile, 10)
	for i := range candidates {
		candidates[i] = interestProfile(string(rune('a'+i)), "hiking", "chess")
	}

	result, err := svc.SelectDiverse(candidates, 3)

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(result))
}

func TestSelectDiverse_PrefersFarthestCandidates(t *testing.T) {
	svc := NewDiversityService()

	candidates := []*entities.Profile{
		interestProfile("seed", "hiking", "chess"),
		interestProfile("near", "hiking", "chess"), // duplicate of seed
		interestProfile("far", "opera", "sailing"), // nothing shared
	}

	result, err := svc.SelectDiverse(candidates, 2)

	require.NoError(t, err)
	assert.Equal(t, []string{"seed", "far"}, ids(result))
}

func TestSelectDiverse_RelevanceSeedsSelection(t *testing.T) {
	svc := NewDiversityService()

	candidates := []*entities.Profile{
		{ID: "a", Relevance: 0.1, Features: entities.Features{Interests: []string{"hiking"}}},
		{ID: "b", Relevance: 0.9, Features: entities.Features{Interests: []string{"chess"}}},
		{ID: "c", Relevance: 0.5, Features: entities.Features{Interests: []string{"opera"}}},
	}

	result, err := svc.SelectDiverse(candidates, 2, WithRelevance(func(p *entities.Profile) float64 {
		return p.Relevance
	}))

	require.NoError(t, err)
	assert.Equal(t, "b", result[0].ID)
}

func TestSelectDiverse_Deterministic(t *testing.T) {
	svc := NewDiversityService()

	candidates := []*entities.Profile{
		interestProfile("a", "hiking", "chess"),
		interestProfile("b", "hiking"),
		interestProfile("c", "opera"),
		interestProfile("d", "opera", "chess"),
		interestProfile("e", "sailing"),
	}

	first, err := svc.SelectDiverse(candidates, 3)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := svc.SelectDiverse(candidates, 3)
		require.NoError(t, err)
		assert.Equal(t, ids(first), ids(again))
	}
}

func TestSelectDiverse_OutputIsSubsetOfInput(t *testing.T) {
	svc := NewDiversityService()

	candidates := []*entities.Profile{
		interestProfile("a", "hiking"),
		interestProfile("b", "chess"),
		interestProfile("c", "opera"),
	}

	result, err := svc.SelectDiverse(candidates, 2)
	require.NoError(t, err)

	byID := map[string]*entities.Profile{}
	for _, p := range candidates {
		byID[p.ID] = p
	}
	for _, p := range result {
		// Identity, not just equal values.
		assert.Same(t, byID[p.ID], p)
	}
}

func TestJaccardDistance(t *testing.T) {
	identical := JaccardDistance(interestProfile("a", "x", "y"), interestProfile("b", "x", "y"))
	assert.Equal(t, 0.0, identical)

	disjoint := JaccardDistance(interestProfile("a", "x"), interestProfile("b", "y"))
	assert.Equal(t, 1.0, disjoint)

	half := JaccardDistance(interestProfile("a", "x", "y"), interestProfile("b", "x", "z"))
	assert.InDelta(t, 1.0-1.0/3.0, half, 1e-9)

	// Profiles with no facets at all count as identical, not an error.
	empty := JaccardDistance(&entities.Profile{ID: "a"}, &entities.Profile{ID: "b"})
	assert.Equal(t, 0.0, empty)
}

func TestJaccardDistance_NamespacesDemographicFacets(t *testing.T) {
	a := &entities.Profile{ID: "a", Features: entities.Features{Demographics: map[string]string{"city": "lagos"}}}
	b := &entities.Profile{ID: "b", Features: entities.Features{Demographics: map[string]string{"language": "lagos"}}}

	assert.Equal(t, 1.0, JaccardDistance(a, b))
}
