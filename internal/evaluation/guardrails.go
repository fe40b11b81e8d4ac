package evaluation

import "github.com/zatekoja/matchsafe/internal/domain/entities"

type GuardrailConfig struct {
	MinPoolSize        int
	MaxCandidatePool   int
	MaxRecommendations int
}

type Guardrails struct {
	config GuardrailConfig
}

func NewGuardrails(config GuardrailConfig) *Guardrails {
	if config.MaxCandidatePool <= 0 {
		config.MaxCandidatePool = 500
	}
	if config.MaxRecommendations <= 0 {
		config.MaxRecommendations = 50
	}
	return &Guardrails{config: config}
}

// ShouldSelect reports whether the safe pool is large enough for the
// diversity stage to be meaningful.
func (g *Guardrails) ShouldSelect(poolSize int) bool {
	return poolSize >= g.config.MinPoolSize
}

// LimitPool caps the candidate pool before the pipeline runs.
func (g *Guardrails) LimitPool(candidates []*entities.Profile) []*entities.Profile {
	if len(candidates) > g.config.MaxCandidatePool {
		return candidates[:g.config.MaxCandidatePool]
	}
	return candidates
}

// ClampTargetSize bounds a requested recommendation count.
func (g *Guardrails) ClampTargetSize(target int) int {
	if target > g.config.MaxRecommendations {
		return g.config.MaxRecommendations
	}
	return target
}
