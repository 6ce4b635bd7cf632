package config

import "time"

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Session record constraints
	MinScore       int
	MaxScore       int
	MaxNotesLength int

	// Session runtime
	DefaultPhaseSeconds int
	DurationPresets     []int
	// CompletionRatio is the share of the target duration a session must
	// reach to count as completed. 1.0 is strict, 0.8 the looser variant.
	CompletionRatio float64

	// Progress reporting
	TopTechniquesLimit   int
	RecommendationsLimit int
	// StreakLocation decides which calendar day a session belongs to.
	StreakLocation *time.Location

	// Profile constraints
	MaxNameLength int
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MinScore:       1,
		MaxScore:       5,
		MaxNotesLength: 500,

		DefaultPhaseSeconds: 4,
		DurationPresets:     []int{180, 300, 600, 900},
		CompletionRatio:     1.0,

		TopTechniquesLimit:   3,
		RecommendationsLimit: 5,
		StreakLocation:       time.UTC,

		MaxNameLength: 50,
	}
}

// ValidScore reports whether v is an acceptable mood or rating value
func (c *DomainConfig) ValidScore(v int) bool {
	return v >= c.MinScore && v <= c.MaxScore
}

// Location returns the streak location, falling back to UTC
func (c *DomainConfig) Location() *time.Location {
	if c == nil || c.StreakLocation == nil {
		return time.UTC
	}
	return c.StreakLocation
}
