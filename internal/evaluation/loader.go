package evaluation

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadGoldenScenarios reads and parses a golden scenario set from a JSON file.
func LoadGoldenScenarios(path string) ([]GoldenScenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read golden scenarios file: %w", err)
	}

	var scenarios []GoldenScenario
	if err := json.Unmarshal(data, &scenarios); err != nil {
		return nil, fmt.Errorf("failed to parse golden scenarios: %w", err)
	}

	return scenarios, nil
}

var validDifficulties = map[string]bool{
	"easy":   true,
	"medium": true,
	"hard":   true,
}

// ValidateGoldenScenarios checks that all golden scenarios have required fields and valid values.
func ValidateGoldenScenarios(scenarios []GoldenScenario) error {
	seen := make(map[string]struct{}, len(scenarios))

	for i, s := range scenarios {
		if s.ID == "" {
			return fmt.Errorf("scenario at index %d: missing id", i)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("scenario at index %d: duplicate id %q", i, s.ID)
		}
		seen[s.ID] = struct{}{}

		if s.Requester == nil || s.Requester.ID == "" {
			return fmt.Errorf("scenario %q: missing requester profile", s.ID)
		}
		if !s.Category.IsValid() {
			return fmt.Errorf("scenario %q: invalid category %q", s.ID, s.Category)
		}
		if s.TargetSize <= 0 {
			return fmt.Errorf("scenario %q: target_size must be positive, got %d", s.ID, s.TargetSize)
		}
		if !validDifficulties[s.Difficulty] {
			return fmt.Errorf("scenario %q: invalid difficulty %q (must be easy/medium/hard)", s.ID, s.Difficulty)
		}
	}

	return nil
}
