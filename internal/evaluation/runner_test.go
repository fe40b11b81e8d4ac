package evaluation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/matchsafe/internal/application/services"
	"github.com/zatekoja/matchsafe/internal/domain/entities"
)

func flaggedProfile(id string, flags ...string) *entities.Profile {
	fs := entities.FlagSet{}
	for _, f := range flags {
		fs[f] = entities.BoolFlag(true)
	}
	return &entities.Profile{ID: id, Flags: fs}
}

func newTestRunner() *Runner {
	return NewRunner(
		services.NewSafeguardService(nil),
		services.NewDiversityService(),
	)
}

func TestRunner_SafetyScenarioCatchesExclusions(t *testing.T) {
	scenarios := []GoldenScenario{
		{
			ID:        "gambling-pairing",
			Category:  CategorySafety,
			Requester: flaggedProfile("u1", "gambling"),
			Candidates: []*entities.Profile{
				flaggedProfile("c1", "gambling"),
				profileWithInterests("c2", "chess"),
				profileWithInterests("c3", "hiking"),
			},
			TargetSize:       5,
			ExpectedExcluded: []string{"c1"},
			Difficulty:       "easy",
		},
	}

	summary, err := newTestRunner().Run(context.Background(), scenarios)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.TotalScenarios)
	assert.Equal(t, 0, summary.SafetyViolations)
	assert.InDelta(t, 1.0, summary.AvgExclusionRecall, floatTolerance)
	assert.Equal(t, 1, summary.ScenariosWithHits)

	cs := summary.ByCategory[CategorySafety]
	require.NotNil(t, cs)
	assert.Equal(t, 1, cs.Count)
	assert.Equal(t, 0, cs.SafetyViolations)
}

func TestRunner_DiversityScenarioReportsDistance(t *testing.T) {
	scenarios := []GoldenScenario{
		{
			ID:        "facet-spread",
			Category:  CategoryDiversity,
			Requester: &entities.Profile{ID: "u1"},
			Candidates: []*entities.Profile{
				profileWithInterests("c1", "chess"),
				profileWithInterests("c2", "hiking"),
				profileWithInterests("c3", "chess"),
			},
			TargetSize: 2,
			Difficulty: "medium",
		},
	}

	summary, err := newTestRunner().Run(context.Background(), scenarios)
	require.NoError(t, err)

	// Greedy selection should pick the two disjoint profiles
	assert.InDelta(t, 1.0, summary.AvgIntraListDist, floatTolerance)
}

func TestRunner_EmptyPoolScenario(t *testing.T) {
	scenarios := []GoldenScenario{
		{
			ID:         "empty-pool",
			Category:   CategoryEdgeCase,
			Requester:  &entities.Profile{ID: "u1"},
			Candidates: nil,
			TargetSize: 5,
			Difficulty: "easy",
		},
	}

	summary, err := newTestRunner().Run(context.Background(), scenarios)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.TotalScenarios)
	assert.Equal(t, 0, summary.ScenariosWithHits)
	assert.Equal(t, 0, summary.SafetyViolations)
}

func TestRunner_GuardrailsBoundPoolAndTarget(t *testing.T) {
	scenarios := []GoldenScenario{
		{
			ID:        "oversized",
			Category:  CategoryDiversity,
			Requester: &entities.Profile{ID: "u1"},
			Candidates: []*entities.Profile{
				profileWithInterests("c1", "chess"),
				profileWithInterests("c2", "hiking"),
				profileWithInterests("c3", "opera"),
				profileWithInterests("c4", "sailing"),
			},
			TargetSize: 10,
			Difficulty: "easy",
		},
	}

	runner := newTestRunner()
	runner.SetGuardrails(NewGuardrails(GuardrailConfig{
		MaxCandidatePool:   3,
		MaxRecommendations: 1,
	}))

	summary, err := runner.Run(context.Background(), scenarios)
	require.NoError(t, err)

	// Target clamped to 1: a single-item list has zero intra-list distance,
	// while an unclamped selection of disjoint interests would score 1.0.
	assert.Equal(t, 1, summary.ScenariosWithHits)
	assert.InDelta(t, 0.0, summary.AvgIntraListDist, floatTolerance)
}

func TestRunner_GuardrailsSkipSelectionBelowMinPool(t *testing.T) {
	scenarios := []GoldenScenario{
		{
			ID:        "tiny-pool",
			Category:  CategoryEdgeCase,
			Requester: &entities.Profile{ID: "u1"},
			Candidates: []*entities.Profile{
				profileWithInterests("c1", "chess"),
			},
			TargetSize: 5,
			Difficulty: "easy",
		},
	}

	runner := newTestRunner()
	runner.SetGuardrails(NewGuardrails(GuardrailConfig{MinPoolSize: 3}))

	summary, err := runner.Run(context.Background(), scenarios)
	require.NoError(t, err)

	// The single safe candidate is still served without a diversity pass.
	assert.Equal(t, 1, summary.ScenariosWithHits)
}

func TestRunner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	scenarios := []GoldenScenario{validScenario("s1")}
	_, err := newTestRunner().Run(ctx, scenarios)
	assert.Error(t, err)
}
