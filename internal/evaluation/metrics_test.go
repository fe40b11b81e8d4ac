package evaluation

import (
	"math"
	"testing"

	"github.com/zatekoja/matchsafe/internal/application/services"
	"github.com/zatekoja/matchsafe/internal/domain/entities"
)

const floatTolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

// --- SafetyViolations tests ---

func TestSafetyViolations_NoLeaks(t *testing.T) {
	expected := []string{"a", "b"}
	recommended := []string{"c", "d", "e"}
	if got := SafetyViolations(expected, recommended); got != 0 {
		t.Errorf("expected 0 violations, got %d", got)
	}
}

func TestSafetyViolations_LeakedCandidates(t *testing.T) {
	expected := []string{"a", "b", "c"}
	recommended := []string{"a", "x", "c"}
	if got := SafetyViolations(expected, recommended); got != 2 {
		t.Errorf("expected 2 violations, got %d", got)
	}
}

func TestSafetyViolations_NothingExpected(t *testing.T) {
	if got := SafetyViolations(nil, []string{"a", "b"}); got != 0 {
		t.Errorf("expected 0 violations, got %d", got)
	}
}

// --- ExclusionRecall tests ---

func TestExclusionRecall_AllCaught(t *testing.T) {
	expected := []string{"a", "b"}
	actual := []string{"a", "b", "c"}
	got := ExclusionRecall(expected, actual)
	if !almostEqual(got, 1.0) {
		t.Errorf("expected 1.0, got %f", got)
	}
}

func TestExclusionRecall_PartiallyCaught(t *testing.T) {
	expected := []string{"a", "b", "c", "d"}
	actual := []string{"a", "c"}
	got := ExclusionRecall(expected, actual)
	if !almostEqual(got, 0.5) {
		t.Errorf("expected 0.5, got %f", got)
	}
}

func TestExclusionRecall_NothingExpected(t *testing.T) {
	// No expected exclusions means the safeguard had nothing to catch
	got := ExclusionRecall(nil, []string{"a"})
	if !almostEqual(got, 1.0) {
		t.Errorf("expected 1.0, got %f", got)
	}
}

func TestExclusionRecall_NothingCaught(t *testing.T) {
	got := ExclusionRecall([]string{"a", "b"}, nil)
	if !almostEqual(got, 0.0) {
		t.Errorf("expected 0.0, got %f", got)
	}
}

// --- IntraListDistance tests ---

func profileWithInterests(id string, interests ...string) *entities.Profile {
	return &entities.Profile{
		ID:       id,
		Features: entities.Features{Interests: interests},
	}
}

func TestIntraListDistance_IdenticalProfiles(t *testing.T) {
	profiles := []*entities.Profile{
		profileWithInterests("a", "chess"),
		profileWithInterests("b", "chess"),
		profileWithInterests("c", "chess"),
	}
	got := IntraListDistance(profiles, services.JaccardDistance)
	if !almostEqual(got, 0.0) {
		t.Errorf("expected 0.0, got %f", got)
	}
}

func TestIntraListDistance_DisjointProfiles(t *testing.T) {
	profiles := []*entities.Profile{
		profileWithInterests("a", "chess"),
		profileWithInterests("b", "hiking"),
	}
	got := IntraListDistance(profiles, services.JaccardDistance)
	if !almostEqual(got, 1.0) {
		t.Errorf("expected 1.0, got %f", got)
	}
}

func TestIntraListDistance_FewerThanTwoProfiles(t *testing.T) {
	if got := IntraListDistance(nil, services.JaccardDistance); !almostEqual(got, 0.0) {
		t.Errorf("expected 0.0 for empty list, got %f", got)
	}
	single := []*entities.Profile{profileWithInterests("a", "chess")}
	if got := IntraListDistance(single, services.JaccardDistance); !almostEqual(got, 0.0) {
		t.Errorf("expected 0.0 for single profile, got %f", got)
	}
}

func TestIntraListDistance_AveragesAllPairs(t *testing.T) {
	profiles := []*entities.Profile{
		profileWithInterests("a", "chess"),
		profileWithInterests("b", "chess"),
		profileWithInterests("c", "hiking"),
	}
	// Pairs: (a,b)=0, (a,c)=1, (b,c)=1 -> average 2/3
	got := IntraListDistance(profiles, services.JaccardDistance)
	if !almostEqual(got, 2.0/3.0) {
		t.Errorf("expected %f, got %f", 2.0/3.0, got)
	}
}
