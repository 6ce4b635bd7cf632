package progress

import (
	"sort"
	"time"

	"breathe-backend/domain/session"
)

// TrackerState is the persisted running total kept by offline clients
type TrackerState struct {
	// Location names the zone the days were reduced in
	Location      string `json:"location"`
	TotalSessions int    `json:"totalSessions"`
	TotalMinutes  int    `json:"totalMinutes"`
	LongestStreak int    `json:"longestStreak"`
	LastDay       Day    `json:"lastDay"`
	RunLength     int    `json:"runLength"`
	Days          []Day  `json:"days"`
}

// Restorable reports whether the state was built in loc from exactly
// records appends. Anything else has to be replayed.
func (s TrackerState) Restorable(loc *time.Location, records int) bool {
	if loc == nil {
		loc = time.UTC
	}
	return s.Location == loc.String() && s.TotalSessions == records
}

// Tracker maintains totals and streaks one append at a time instead of
// replaying the history. Its results always equal Engine.Compute over the
// same records.
type Tracker struct {
	loc   *time.Location
	state TrackerState
	days  map[Day]struct{}
}

// NewTracker creates an empty tracker
func NewTracker(loc *time.Location) *Tracker {
	if loc == nil {
		loc = time.UTC
	}
	return &Tracker{
		loc:   loc,
		state: TrackerState{Location: loc.String()},
		days:  make(map[Day]struct{}),
	}
}

// RestoreTracker rebuilds a tracker from persisted state
func RestoreTracker(loc *time.Location, state TrackerState) *Tracker {
	t := NewTracker(loc)
	t.state = state
	t.state.Location = t.loc.String()
	for _, d := range state.Days {
		t.days[d] = struct{}{}
	}
	return t
}

// Append folds one record into the running state
func (t *Tracker) Append(r session.Record) {
	t.state.TotalSessions++
	t.state.TotalMinutes += r.Minutes()

	day := DayOf(r.OccurredAt, t.loc)
	if _, seen := t.days[day]; seen {
		return
	}
	t.days[day] = struct{}{}
	t.state.Days = append(t.state.Days, day)

	switch {
	case t.state.RunLength == 0:
		t.state.LastDay, t.state.RunLength = day, 1
	case day == t.state.LastDay+1:
		t.state.LastDay = day
		t.state.RunLength++
	case day > t.state.LastDay:
		t.state.LastDay, t.state.RunLength = day, 1
	default:
		// A backdated record can join two runs, so rescan the day set.
		t.rescan()
		return
	}
	if t.state.RunLength > t.state.LongestStreak {
		t.state.LongestStreak = t.state.RunLength
	}
}

func (t *Tracker) rescan() {
	days := make([]Day, 0, len(t.days))
	for d := range t.days {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] > days[j] })

	t.state.LastDay = days[0]
	t.state.RunLength = 1
	for i := 1; i < len(days) && days[i-1]-days[i] == 1; i++ {
		t.state.RunLength++
	}
	t.state.LongestStreak = LongestStreak(days)
}

// CurrentStreak is the streak as of today. It lapses to zero once the last
// practice day is older than yesterday.
func (t *Tracker) CurrentStreak(today Day) int {
	if t.state.RunLength == 0 {
		return 0
	}
	if t.state.LastDay != today && t.state.LastDay != today-1 {
		return 0
	}
	return t.state.RunLength
}

// LongestStreak is the longest run seen so far
func (t *Tracker) LongestStreak() int {
	return t.state.LongestStreak
}

// TotalSessions is the number of appended records
func (t *Tracker) TotalSessions() int {
	return t.state.TotalSessions
}

// TotalMinutes is the per-record truncated minute sum
func (t *Tracker) TotalMinutes() int {
	return t.state.TotalMinutes
}

// LastSessionDate formats the latest practice day, or "" when empty
func (t *Tracker) LastSessionDate() string {
	if t.state.RunLength == 0 {
		return ""
	}
	return t.state.LastDay.String()
}

// State returns a copy of the running state for persistence
func (t *Tracker) State() TrackerState {
	s := t.state
	s.Days = append([]Day(nil), t.state.Days...)
	return s
}
