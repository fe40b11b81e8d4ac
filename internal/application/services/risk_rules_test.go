package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/matchsafe/internal/domain/entities"
)

func TestSharedFlagRule_BothFlagged(t *testing.T) {
	rule := SharedFlagRule{Flag: "gambling", MinSeverity: 0.5}

	requester := entities.FlagSet{"gambling": entities.BoolFlag(true)}
	candidate := entities.FlagSet{"gambling": entities.BoolFlag(true)}

	assert.True(t, rule.Matches(requester, candidate))
}

func TestSharedFlagRule_MissingKeyNeverTriggers(t *testing.T) {
	rule := SharedFlagRule{Flag: "gambling", MinSeverity: 0.5}

	requester := entities.FlagSet{"gambling": entities.BoolFlag(true)}

	// Absence means unknown, not false and not risk-positive.
	assert.False(t, rule.Matches(requester, entities.FlagSet{}))
	assert.False(t, rule.Matches(requester, nil))
}

func TestSharedFlagRule_BelowSeverityThreshold(t *testing.T) {
	rule := SharedFlagRule{Flag: "substance-abuse", MinSeverity: 0.5}

	requester := entities.FlagSet{"substance-abuse": {Set: true, Severity: 0.9}}
	candidate := entities.FlagSet{"substance-abuse": {Set: true, Severity: 0.2}}

	assert.False(t, rule.Matches(requester, candidate))
}

func TestPairedFlagRule_MatchesEitherOrientation(t *testing.T) {
	rule := PairedFlagRule{FlagA: "suicidal", FlagB: "self-harm-risk", MinSeverity: 0.5}

	a := entities.FlagSet{"suicidal": entities.BoolFlag(true)}
	b := entities.FlagSet{"self-harm-risk": entities.BoolFlag(true)}

	assert.True(t, rule.Matches(a, b))
	assert.True(t, rule.Matches(b, a))
	assert.False(t, rule.Matches(a, entities.FlagSet{}))
}

func TestSharedFlagRule_ZeroThresholdRequiresPresence(t *testing.T) {
	rule := SharedFlagRule{Flag: "gambling", MinSeverity: 0}

	flagged := entities.FlagSet{"gambling": entities.BoolFlag(true)}

	// With a zero threshold a missing or unset flag must still never
	// trigger; only present, set flags qualify.
	assert.False(t, rule.Matches(entities.FlagSet{}, entities.FlagSet{}))
	assert.False(t, rule.Matches(nil, nil))
	assert.False(t, rule.Matches(flagged, entities.FlagSet{}))
	assert.False(t, rule.Matches(flagged, entities.FlagSet{"gambling": entities.BoolFlag(false)}))
	assert.True(t, rule.Matches(flagged, flagged))
}

func TestPairedFlagRule_ZeroThresholdRequiresPresence(t *testing.T) {
	rule := PairedFlagRule{FlagA: "suicidal", FlagB: "self-harm-risk", MinSeverity: 0}

	a := entities.FlagSet{"suicidal": entities.BoolFlag(true)}
	b := entities.FlagSet{"self-harm-risk": entities.BoolFlag(true)}

	assert.False(t, rule.Matches(entities.FlagSet{}, entities.FlagSet{}))
	assert.False(t, rule.Matches(a, entities.FlagSet{}))
	assert.False(t, rule.Matches(entities.FlagSet{}, b))
	assert.True(t, rule.Matches(a, b))
}

func TestDefaultRiskRules_Inspectable(t *testing.T) {
	rules := DefaultRiskRules(0.5)

	assert.NotEmpty(t, rules)
	for _, r := range rules {
		assert.NotEmpty(t, r.Name())
	}
}
