package evaluation

import (
	"context"
	"time"

	"github.com/zatekoja/matchsafe/internal/application/services"
	"github.com/zatekoja/matchsafe/internal/domain/entities"
)

// Runner replays golden scenarios through the safeguard and diversity stages
// using the scenario's in-memory candidate pool, so no retrieval backend is
// needed for offline evaluation.
type Runner struct {
	safeguard *services.SafeguardService
	diversity *services.DiversityService
	guards    *Guardrails
	distance  services.DistanceFunc
}

func NewRunner(safeguard *services.SafeguardService, diversity *services.DiversityService) *Runner {
	return &Runner{
		safeguard: safeguard,
		diversity: diversity,
		guards:    NewGuardrails(GuardrailConfig{}),
		distance:  services.JaccardDistance,
	}
}

// SetGuardrails overrides the default pool and target bounds.
func (r *Runner) SetGuardrails(guards *Guardrails) {
	if guards != nil {
		r.guards = guards
	}
}

func (r *Runner) Run(ctx context.Context, scenarios []GoldenScenario) (*EvalSummary, error) {
	summary := &EvalSummary{
		TotalScenarios: len(scenarios),
		ByCategory:     make(map[Category]*CategorySummary),
	}

	for _, gs := range scenarios {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		start := time.Now()

		pool := r.guards.LimitPool(gs.Candidates)

		safe, exclusions, err := r.safeguard.FilterSafe(gs.Requester, pool)
		if err != nil {
			continue
		}

		target := r.guards.ClampTargetSize(gs.TargetSize)
		var selected []*entities.Profile
		if r.guards.ShouldSelect(len(safe)) {
			selected, err = r.diversity.SelectDiverse(safe, target)
		} else {
			// Below the minimum pool size the diversity pass adds nothing;
			// serve the safe list head instead.
			selected = safe
			if len(selected) > target {
				selected = selected[:target]
			}
		}
		duration := time.Since(start)
		if err != nil {
			continue
		}

		recommendedIDs := make([]string, len(selected))
		for i, p := range selected {
			recommendedIDs[i] = p.ID
		}
		excludedIDs := make([]string, len(exclusions))
		for i, e := range exclusions {
			excludedIDs[i] = e.CandidateID
		}

		result := EvalResult{
			ScenarioID:        gs.ID,
			Category:          gs.Category,
			SafetyViolations:  SafetyViolations(gs.ExpectedExcluded, recommendedIDs),
			ExclusionRecall:   ExclusionRecall(gs.ExpectedExcluded, excludedIDs),
			IntraListDistance: IntraListDistance(selected, r.distance),
			ResultCount:       len(selected),
			RecommendedIDs:    recommendedIDs,
			Latency:           duration,
		}

		r.updateSummary(summary, result)
	}

	r.finalizeSummary(summary)
	return summary, nil
}

func (r *Runner) updateSummary(s *EvalSummary, res EvalResult) {
	s.SafetyViolations += res.SafetyViolations
	s.AvgExclusionRecall += res.ExclusionRecall
	s.AvgIntraListDist += res.IntraListDistance
	s.AvgLatency += res.Latency
	if res.ResultCount > 0 {
		s.ScenariosWithHits++
	}

	if _, ok := s.ByCategory[res.Category]; !ok {
		s.ByCategory[res.Category] = &CategorySummary{}
	}
	cs := s.ByCategory[res.Category]
	cs.Count++
	cs.SafetyViolations += res.SafetyViolations
	cs.AvgExclusionRecall += res.ExclusionRecall
	cs.AvgIntraListDist += res.IntraListDistance
}

func (r *Runner) finalizeSummary(s *EvalSummary) {
	if s.TotalScenarios > 0 {
		n := float64(s.TotalScenarios)
		s.AvgExclusionRecall /= n
		s.AvgIntraListDist /= n
		s.AvgLatency /= time.Duration(s.TotalScenarios)
	}

	for _, cs := range s.ByCategory {
		if cs.Count > 0 {
			n := float64(cs.Count)
			cs.AvgExclusionRecall /= n
			cs.AvgIntraListDist /= n
		}
	}
}
