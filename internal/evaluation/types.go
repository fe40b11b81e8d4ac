package evaluation

import (
	"time"

	"github.com/zatekoja/matchsafe/internal/domain/entities"
)

// Category represents the behavior a golden scenario exercises.
type Category string

const (
	CategorySafety    Category = "safety"    // risk flag pairings must be excluded
	CategoryDiversity Category = "diversity" // result set must spread across facets
	CategoryRelevance Category = "relevance" // retrieval scores must influence seeding
	CategoryEdgeCase  Category = "edge_case" // empty pools, malformed candidates
)

// ValidCategories returns all valid category values.
func ValidCategories() []Category {
	return []Category{CategorySafety, CategoryDiversity, CategoryRelevance, CategoryEdgeCase}
}

// IsValid checks if the category value is one of the defined constants.
func (c Category) IsValid() bool {
	switch c {
	case CategorySafety, CategoryDiversity, CategoryRelevance, CategoryEdgeCase:
		return true
	}
	return false
}

// GoldenScenario represents a labeled matching scenario with expected outcomes.
type GoldenScenario struct {
	ID               string              `json:"id"`
	Description      string              `json:"description"`
	Category         Category            `json:"category"`
	Requester        *entities.Profile   `json:"requester"`
	Candidates       []*entities.Profile `json:"candidates"`
	TargetSize       int                 `json:"target_size"`
	ExpectedExcluded []string            `json:"expected_excluded"`
	Difficulty       string              `json:"difficulty"` // easy, medium, hard
}

// EvalResult holds the evaluation outcome for a single scenario.
type EvalResult struct {
	ScenarioID        string
	Category          Category
	SafetyViolations  int
	ExclusionRecall   float64
	IntraListDistance float64
	ResultCount       int
	RecommendedIDs    []string
	Latency           time.Duration
}

// EvalSummary holds aggregate metrics across all golden scenarios.
type EvalSummary struct {
	TotalScenarios     int
	SafetyViolations   int // total leaked candidates across all scenarios
	AvgExclusionRecall float64
	AvgIntraListDist   float64
	AvgLatency         time.Duration
	ScenariosWithHits  int // scenarios that returned at least 1 recommendation
	ByCategory         map[Category]*CategorySummary
}

// CategorySummary holds metrics grouped by scenario category.
type CategorySummary struct {
	Count              int
	SafetyViolations   int
	AvgExclusionRecall float64
	AvgIntraListDist   float64
}
