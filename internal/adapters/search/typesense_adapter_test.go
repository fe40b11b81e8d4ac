package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildFacetTokens(t *testing.T) {
	tokens := buildFacetTokens([]string{" Hiking ", "chess", "HIKING", "", "Chess "})

	assert.Equal(t, []string{"hiking", "chess"}, tokens)
}

func TestBuildFacetTokensEmpty(t *testing.T) {
	assert.Empty(t, buildFacetTokens(nil))
}

func TestBuildDemographicTokens(t *testing.T) {
	tokens := buildDemographicTokens(map[string]string{
		"City":     "Lagos",
		"language": " Yoruba ",
	})

	assert.Equal(t, []string{"city:lagos", "language:yoruba"}, tokens)
}
