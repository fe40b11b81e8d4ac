package entities

// ExclusionReason classifies why a candidate was dropped from a pass.
type ExclusionReason string

const (
	// ExclusionRiskRule means a registered risk rule matched the pairing.
	ExclusionRiskRule ExclusionReason = "risk_rule"

	// ExclusionInvalidProfile means the candidate's profile or flag data
	// was malformed and the candidate was skipped rather than evaluated.
	ExclusionInvalidProfile ExclusionReason = "invalid_profile"
)

// Exclusion is one audit record for a candidate removed during filtering.
type Exclusion struct {
	CandidateID string          `json:"candidate_id"`
	Reason      ExclusionReason `json:"reason"`
	Rule        string          `json:"rule,omitempty"`
	Detail      string          `json:"detail,omitempty"`
}

// RecommendationSet is the final output of a matching request: an ordered,
// size-bounded, diversity-screened list of candidate profiles. It is not
// persisted; the presentation layer consumes it immediately.
type RecommendationSet struct {
	RequesterID string       `json:"requester_id"`
	Profiles    []*Profile   `json:"profiles"`
	Exclusions  []Exclusion  `json:"exclusions,omitempty"`
}
