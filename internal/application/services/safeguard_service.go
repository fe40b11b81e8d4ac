package services

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/matchsafe/internal/domain/entities"
	apperrors "github.com/zatekoja/matchsafe/pkg/errors"
)

// SafeguardService excludes candidate pairings that match any registered
// high-risk flag combination. It holds no per-request state and is safe for
// concurrent use.
type SafeguardService struct {
	rules []RiskRule
}

// NewSafeguardService creates a safeguard service with the given rule set.
// A nil or empty rule set falls back to DefaultRiskRules at severity 0.5.
func NewSafeguardService(rules []RiskRule) *SafeguardService {
	if len(rules) == 0 {
		rules = DefaultRiskRules(0.5)
	}
	return &SafeguardService{rules: rules}
}

// Rules returns a copy of the registered rule list, in evaluation order.
func (s *SafeguardService) Rules() []RiskRule {
	out := make([]RiskRule, len(s.rules))
	copy(out, s.rules)
	return out
}

// FilterSafe removes candidates forming a high-risk pairing with the
// requester. The returned list is an order-preserving subset of the input;
// no candidate is synthesized or reordered. A malformed candidate is
// excluded with an audit record and the pass continues, so one bad profile
// never blocks the rest of the batch.
func (s *SafeguardService) FilterSafe(requester *entities.Profile, candidates []*entities.Profile) ([]*entities.Profile, []entities.Exclusion, error) {
	if requester == nil || requester.ID == "" {
		return nil, nil, apperrors.NewInvalidProfileError("requester profile is missing or has no id")
	}

	filtered := make([]*entities.Profile, 0, len(candidates))
	var exclusions []entities.Exclusion

	for i, candidate := range candidates {
		if candidate == nil || candidate.ID == "" {
			exclusions = append(exclusions, entities.Exclusion{
				CandidateID: candidateID(candidate),
				Reason:      entities.ExclusionInvalidProfile,
				Detail:      fmt.Sprintf("candidate at index %d is missing or has no id", i),
			})
			log.Warn().
				Int("index", i).
				Str("requester_id", requester.ID).
				Msg("skipping malformed candidate profile")
			continue
		}

		if rule := s.firstMatch(requester.Flags, candidate.Flags); rule != nil {
			exclusions = append(exclusions, entities.Exclusion{
				CandidateID: candidate.ID,
				Reason:      entities.ExclusionRiskRule,
				Rule:        rule.Name(),
			})
			continue
		}

		filtered = append(filtered, candidate)
	}

	return filtered, exclusions, nil
}

// firstMatch returns the first rule triggered by the pairing, nil if none.
func (s *SafeguardService) firstMatch(requester, candidate entities.FlagSet) RiskRule {
	for _, rule := range s.rules {
		if rule.Matches(requester, candidate) {
			return rule
		}
	}
	return nil
}

func candidateID(p *entities.Profile) string {
	if p == nil {
		return ""
	}
	return p.ID
}
