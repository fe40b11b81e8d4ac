package services

import (
	"fmt"

	"github.com/zatekoja/matchsafe/internal/domain/entities"
)

// RiskRule is a pure, read-only predicate over two flag sets expressing one
// mutually-reinforcing-risk combination. Rules are registered as an ordered,
// inspectable list so the policy stays auditable and each rule can be tested
// in isolation. A rule must never mutate either flag set.
type RiskRule interface {
	// Name identifies the rule in audit records.
	Name() string

	// Matches reports whether the pairing of requester and candidate flags
	// triggers this rule. A missing flag key means unknown/unset and must
	// never trigger.
	Matches(requester, candidate entities.FlagSet) bool
}

// SharedFlagRule triggers when both parties carry the same flag at or above
// a severity threshold (e.g. both flagged for gambling).
type SharedFlagRule struct {
	Flag        string
	MinSeverity float64
}

// Name identifies the rule in audit records.
func (r SharedFlagRule) Name() string {
	return fmt.Sprintf("shared_flag:%s", r.Flag)
}

// Matches reports whether both flag sets carry the flag above the threshold.
// Presence is checked first so a non-positive threshold cannot turn a
// missing flag into a match.
func (r SharedFlagRule) Matches(requester, candidate entities.FlagSet) bool {
	return requester.Has(r.Flag) && candidate.Has(r.Flag) &&
		requester.Severity(r.Flag) >= r.MinSeverity &&
		candidate.Severity(r.Flag) >= r.MinSeverity
}

// PairedFlagRule triggers when the requester carries one flag and the
// candidate carries another, in either direction. Covers asymmetric
// combinations that are harmful regardless of which side is which.
type PairedFlagRule struct {
	FlagA       string
	FlagB       string
	MinSeverity float64
}

// Name identifies the rule in audit records.
func (r PairedFlagRule) Name() string {
	return fmt.Sprintf("paired_flags:%s+%s", r.FlagA, r.FlagB)
}

// Matches checks both orientations of the pairing.
func (r PairedFlagRule) Matches(requester, candidate entities.FlagSet) bool {
	if r.carries(requester, r.FlagA) && r.carries(candidate, r.FlagB) {
		return true
	}
	return r.carries(requester, r.FlagB) && r.carries(candidate, r.FlagA)
}

// carries reports whether the flag is present, set, and at or above the
// threshold. Missing keys never qualify regardless of the threshold.
func (r PairedFlagRule) carries(flags entities.FlagSet, flag string) bool {
	return flags.Has(flag) && flags.Severity(flag) >= r.MinSeverity
}

// DefaultRiskRules returns the standard rule set. minSeverity is the severity
// at which a graded flag counts as set; plain boolean flags record 1.0.
// New combinations are appended here without touching existing rules.
func DefaultRiskRules(minSeverity float64) []RiskRule {
	return []RiskRule{
		SharedFlagRule{Flag: "gambling", MinSeverity: minSeverity},
		SharedFlagRule{Flag: "suicidal", MinSeverity: minSeverity},
		SharedFlagRule{Flag: "self-harm-risk", MinSeverity: minSeverity},
		SharedFlagRule{Flag: "substance-abuse", MinSeverity: minSeverity},
		PairedFlagRule{FlagA: "suicidal", FlagB: "self-harm-risk", MinSeverity: minSeverity},
	}
}
