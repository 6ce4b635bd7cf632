// Package technique holds the read-only breathing technique catalog.
package technique

// Difficulty ranks how demanding a technique is
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// Rank orders difficulties from easiest to hardest. Unknown values sort last.
func (d Difficulty) Rank() int {
	switch d {
	case Beginner:
		return 1
	case Intermediate:
		return 2
	case Advanced:
		return 3
	default:
		return 4
	}
}

// EvidenceLevel describes how well studied a technique is
type EvidenceLevel string

const (
	EvidenceHigh     EvidenceLevel = "high"
	EvidenceModerate EvidenceLevel = "moderate"
	EvidenceEmerging EvidenceLevel = "emerging"
)

// DefaultPhaseSeconds is used for any phase without a usable duration
const DefaultPhaseSeconds = 4

// StandardPresets are the session lengths offered for every technique, in seconds
var StandardPresets = []int{180, 300, 600, 900}

// Phase is one step of a breathing pattern
type Phase struct {
	Name        string `json:"name"`
	Duration    int    `json:"duration"`
	Instruction string `json:"instruction,omitempty"`
}

// Seconds returns the phase length, falling back to DefaultPhaseSeconds
func (p Phase) Seconds() int {
	if p.Duration <= 0 {
		return DefaultPhaseSeconds
	}
	return p.Duration
}

// Pattern is the ordered phase sequence of a technique
type Pattern struct {
	Phases              []Phase `json:"phases"`
	RecommendedDuration int     `json:"recommendedDuration"`
	CyclesPerMinute     float64 `json:"cyclesPerMinute"`
}

// Outcomes lists what a practitioner can expect over time
type Outcomes struct {
	Immediate []string `json:"immediate,omitempty"`
	ShortTerm []string `json:"shortTerm,omitempty"`
	LongTerm  []string `json:"longTerm,omitempty"`
}

// Technique is a catalog entry
type Technique struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	Description       string        `json:"description,omitempty"`
	Category          string        `json:"category"`
	Difficulty        Difficulty    `json:"difficulty"`
	EvidenceLevel     EvidenceLevel `json:"evidenceLevel"`
	HealthImpactRank  int           `json:"healthImpactRank"`
	PrimaryBenefits   []string      `json:"primaryBenefits"`
	Pattern           Pattern       `json:"pattern"`
	Instructions      []string      `json:"instructions,omitempty"`
	Science           string        `json:"science,omitempty"`
	ExpectedOutcomes  Outcomes      `json:"expectedOutcomes"`
	Contraindications []string      `json:"contraindications,omitempty"`
	SafetyWarnings    []string      `json:"safetyWarnings,omitempty"`
}

// HasBenefit reports whether the technique lists the given benefit tag
func (t Technique) HasBenefit(benefit string) bool {
	for _, b := range t.PrimaryBenefits {
		if b == benefit {
			return true
		}
	}
	return false
}

// PhaseSeconds returns the effective phase durations. An empty pattern
// behaves as a single default-length phase.
func (t Technique) PhaseSeconds() []int {
	if len(t.Pattern.Phases) == 0 {
		return []int{DefaultPhaseSeconds}
	}
	out := make([]int, len(t.Pattern.Phases))
	for i, p := range t.Pattern.Phases {
		out[i] = p.Seconds()
	}
	return out
}

// CycleSeconds is the length of one full pass through the pattern
func (t Technique) CycleSeconds() int {
	total := 0
	for _, s := range t.PhaseSeconds() {
		total += s
	}
	return total
}

// DurationPresets returns the selectable session lengths: the standard
// presets plus the recommended duration when it is not already one of them.
func (t Technique) DurationPresets() []int {
	presets := append([]int(nil), StandardPresets...)
	rec := t.Pattern.RecommendedDuration
	if rec <= 0 {
		return presets
	}
	for _, p := range presets {
		if p == rec {
			return presets
		}
	}
	// keep ascending order
	out := make([]int, 0, len(presets)+1)
	inserted := false
	for _, p := range presets {
		if !inserted && rec < p {
			out = append(out, rec)
			inserted = true
		}
		out = append(out, p)
	}
	if !inserted {
		out = append(out, rec)
	}
	return out
}

// DefaultDuration is the session length used when none is chosen
func (t Technique) DefaultDuration() int {
	if t.Pattern.RecommendedDuration > 0 {
		return t.Pattern.RecommendedDuration
	}
	return StandardPresets[1]
}

// SupportsDuration reports whether seconds is one of the technique's presets
func (t Technique) SupportsDuration(seconds int) bool {
	for _, p := range t.DurationPresets() {
		if p == seconds {
			return true
		}
	}
	return false
}
