package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/matchsafe/internal/domain/entities"
)

func TestGuardrails_RejectSmallPool(t *testing.T) {
	g := NewGuardrails(GuardrailConfig{MinPoolSize: 3})

	assert.False(t, g.ShouldSelect(2))
	assert.True(t, g.ShouldSelect(3))
	assert.True(t, g.ShouldSelect(10))
}

func TestGuardrails_LimitPool(t *testing.T) {
	g := NewGuardrails(GuardrailConfig{MaxCandidatePool: 2})

	candidates := []*entities.Profile{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	limited := g.LimitPool(candidates)

	assert.Equal(t, 2, len(limited))
	assert.Equal(t, "a", limited[0].ID)
	assert.Equal(t, "b", limited[1].ID)
}

func TestGuardrails_ClampTargetSize(t *testing.T) {
	g := NewGuardrails(GuardrailConfig{MaxRecommendations: 10})

	assert.Equal(t, 5, g.ClampTargetSize(5))
	assert.Equal(t, 10, g.ClampTargetSize(10))
	assert.Equal(t, 10, g.ClampTargetSize(100))
}
