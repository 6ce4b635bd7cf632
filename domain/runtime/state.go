// Package runtime steps a guided breathing session through its technique's
// phases. State transitions are pure; Runner drives them from a clock.
package runtime

import (
	"errors"
	"time"

	"breathe-backend/domain/session"
	"breathe-backend/domain/technique"
)

// Status is a session lifecycle state
type Status string

const (
	StatusSetup     Status = "setup"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Completion ratios for the completed flag
const (
	StrictCompletion = 1.0
	LooseCompletion  = 0.8
)

var (
	ErrUnsupportedDuration = errors.New("duration is not one of the technique presets")
	ErrInvalidTransition   = errors.New("transition not allowed from current state")
	ErrInvalidScore        = errors.New("score must be between 1 and 5")
	ErrAlreadyRecorded     = errors.New("session already recorded")
)

// State is a snapshot of a guided session. Transitions return a new State
// and never modify the receiver.
type State struct {
	TechniqueID    string
	Phases         []technique.Phase
	phaseSeconds   []int
	Target         int
	Elapsed        int
	PhaseIndex     int
	PhaseRemaining int
	Cycles         int
	Status         Status
	PreMood        *int
	StartedAt      time.Time
	Recorded       bool
}

// New enters setup for technique t. A zero duration selects the technique's
// recommended duration; any other value must be one of its presets.
func New(t technique.Technique, duration int) (State, error) {
	if duration == 0 {
		duration = t.DefaultDuration()
	}
	if !t.SupportsDuration(duration) {
		return State{}, ErrUnsupportedDuration
	}
	secs := t.PhaseSeconds()
	phases := t.Pattern.Phases
	if len(phases) == 0 {
		phases = []technique.Phase{{Name: "breathe", Duration: technique.DefaultPhaseSeconds}}
	}
	return State{
		TechniqueID:    t.ID,
		Phases:         phases,
		phaseSeconds:   secs,
		Target:         duration,
		PhaseRemaining: secs[0],
		Status:         StatusSetup,
	}, nil
}

// SetPreMood records the mood reported before starting
func (s State) SetPreMood(mood int) (State, error) {
	if s.Status != StatusSetup {
		return s, ErrInvalidTransition
	}
	if mood < 1 || mood > 5 {
		return s, ErrInvalidScore
	}
	s.PreMood = session.Int(mood)
	return s, nil
}

// Start moves setup to active
func (s State) Start(now time.Time) (State, error) {
	if s.Status != StatusSetup {
		return s, ErrInvalidTransition
	}
	s.Status = StatusActive
	s.StartedAt = now
	return s, nil
}

// Tick applies one elapsed second. It is a no-op unless the session is
// active. Reaching the target completes the session.
func (s State) Tick() State {
	if s.Status != StatusActive {
		return s
	}
	s.Elapsed++
	s.PhaseRemaining--
	if s.PhaseRemaining <= 0 {
		s.PhaseIndex++
		if s.PhaseIndex >= len(s.phaseSeconds) {
			s.PhaseIndex = 0
			s.Cycles++
		}
		s.PhaseRemaining = s.phaseSeconds[s.PhaseIndex]
	}
	if s.Elapsed >= s.Target {
		s.Status = StatusCompleted
	}
	return s
}

// Advance applies n ticks, stopping early if the session leaves active
func (s State) Advance(n int) State {
	for i := 0; i < n && s.Status == StatusActive; i++ {
		s = s.Tick()
	}
	return s
}

// Pause suspends an active session without resetting progress
func (s State) Pause() (State, error) {
	if s.Status != StatusActive {
		return s, ErrInvalidTransition
	}
	s.Status = StatusPaused
	return s, nil
}

// Resume continues a paused session exactly where it stopped
func (s State) Resume() (State, error) {
	if s.Status != StatusPaused {
		return s, ErrInvalidTransition
	}
	s.Status = StatusActive
	return s, nil
}

// Finish ends an active or paused session early
func (s State) Finish() (State, error) {
	if s.Status != StatusActive && s.Status != StatusPaused {
		return s, ErrInvalidTransition
	}
	s.Status = StatusCompleted
	return s, nil
}

// Cancel discards the session. A cancelled session never yields a record.
func (s State) Cancel() (State, error) {
	if s.Status == StatusCompleted || s.Status == StatusCancelled {
		return s, ErrInvalidTransition
	}
	s.Status = StatusCancelled
	return s, nil
}

// Complete produces the one record for a completed session. The record's
// duration is the elapsed time, and it counts as completed when elapsed
// reached ratio of the target.
func (s State) Complete(userID string, postMood, rating *int, ratio float64, now time.Time) (State, session.Record, error) {
	if s.Status != StatusCompleted {
		return s, session.Record{}, ErrInvalidTransition
	}
	if s.Recorded {
		return s, session.Record{}, ErrAlreadyRecorded
	}
	for _, v := range []*int{postMood, rating} {
		if v != nil && (*v < 1 || *v > 5) {
			return s, session.Record{}, ErrInvalidScore
		}
	}
	if ratio <= 0 || ratio > 1 {
		ratio = StrictCompletion
	}

	rec := session.Record{
		ID:              session.NewID(),
		UserID:          userID,
		TechniqueID:     s.TechniqueID,
		OccurredAt:      now,
		DurationSeconds: s.Elapsed,
		Completed:       float64(s.Elapsed) >= ratio*float64(s.Target),
		PreMood:         s.PreMood,
		PostMood:        postMood,
		Rating:          rating,
	}
	s.Recorded = true
	return s, rec, nil
}

// CurrentPhase returns the phase being practised
func (s State) CurrentPhase() technique.Phase {
	if len(s.Phases) == 0 {
		return technique.Phase{}
	}
	return s.Phases[s.PhaseIndex]
}

// PhaseProgress is how far through the current phase the session is, in [0,1)
func (s State) PhaseProgress() float64 {
	if len(s.phaseSeconds) == 0 {
		return 0
	}
	total := s.phaseSeconds[s.PhaseIndex]
	return float64(total-s.PhaseRemaining) / float64(total)
}

// Remaining is the number of seconds left before the target
func (s State) Remaining() int {
	if r := s.Target - s.Elapsed; r > 0 {
		return r
	}
	return 0
}

// CycleSeconds is the length of one pass through the phases
func (s State) CycleSeconds() int {
	total := 0
	for _, v := range s.phaseSeconds {
		total += v
	}
	return total
}
