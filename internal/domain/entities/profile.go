package entities

import (
	"time"
)

// FlagValue is the recorded state of one behavioral flag on a profile.
// A flag that is merely present counts with severity 1.0; graded flags
// carry an intensity in (0, 1].
type FlagValue struct {
	Set      bool    `json:"set" db:"set"`
	Severity float64 `json:"severity" db:"severity"`
}

// BoolFlag returns a FlagValue for a plain boolean flag.
func BoolFlag(set bool) FlagValue {
	sev := 0.0
	if set {
		sev = 1.0
	}
	return FlagValue{Set: set, Severity: sev}
}

// FlagSet maps a behavioral flag name (e.g. "gambling", "self-harm-risk")
// to its recorded value. The set is not exhaustive: a missing key means
// unknown/unset, which never triggers a risk rule. Absence must not be
// collapsed into "false" when merging or persisting.
type FlagSet map[string]FlagValue

// Has reports whether the named flag is present and set.
func (f FlagSet) Has(name string) bool {
	v, ok := f[name]
	return ok && v.Set
}

// Severity returns the recorded severity of the named flag, 0 if unset.
func (f FlagSet) Severity(name string) float64 {
	v, ok := f[name]
	if !ok || !v.Set {
		return 0
	}
	return v.Severity
}

// Features is the categorical feature representation used for similarity
// comparison between profiles.
type Features struct {
	Interests    []string          `json:"interests"`
	Values       []string          `json:"values"`
	Demographics map[string]string `json:"demographics"`
}

// Facets returns all categorical attributes as a flat set of tokens,
// demographic facets namespaced by key so that "city:lagos" and
// "language:lagos" never collide.
func (f Features) Facets() map[string]struct{} {
	facets := make(map[string]struct{}, len(f.Interests)+len(f.Values)+len(f.Demographics))
	for _, i := range f.Interests {
		facets["interest:"+i] = struct{}{}
	}
	for _, v := range f.Values {
		facets["value:"+v] = struct{}{}
	}
	for k, v := range f.Demographics {
		facets[k+":"+v] = struct{}{}
	}
	return facets
}

// Profile represents a user profile as handed to the matching pipeline.
// It is immutable for the duration of a matching request; the caller owns it.
type Profile struct {
	ID        string    `json:"id" db:"id"`
	Flags     FlagSet   `json:"flags"`
	Features  Features  `json:"features"`
	Relevance float64   `json:"relevance,omitempty"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
