package services

import (
	"os"
)

type FeatureFlags struct {
	diversityShadowMode bool
}

func NewFeatureFlags() *FeatureFlags {
	return &FeatureFlags{
		diversityShadowMode: os.Getenv("FEATURE_DIVERSITY_SHADOW") == "true",
	}
}

// DiversityShadowMode reports whether the diversity stage runs in shadow
// mode: its selection is logged for comparison but not served.
func (f *FeatureFlags) DiversityShadowMode() bool {
	return f.diversityShadowMode
}
