// Package progress derives a user's practice statistics from their session
// records. Every value is recomputed from the full record set on request.
package progress

import (
	"sort"
	"time"

	"breathe-backend/domain/session"
)

// Clock returns the current instant
type Clock func() time.Time

// Snapshot is the derived progress of one user
type Snapshot struct {
	TotalSessions      int              `json:"totalSessions"`
	TotalMinutes       int              `json:"totalMinutes"`
	CurrentStreak      int              `json:"currentStreak"`
	LongestStreak      int              `json:"longestStreak"`
	LastSessionDate    string           `json:"lastSessionDate,omitempty"`
	AvgMoodImprovement float64          `json:"avgMoodImprovement"`
	MoodSamples        int              `json:"moodSamples"`
	AvgRating          float64          `json:"avgRating"`
	WeeklyMinutes      [7]int           `json:"weeklyMinutes"`
	TechniqueCounts    []TechniqueCount `json:"techniqueCounts"`
	TopTechniques      []TechniqueCount `json:"topTechniques"`
	MostPracticed      string           `json:"mostPracticed,omitempty"`
	TodaysSessions     int              `json:"todaysSessions"`
	FavoritesCount     int              `json:"favoritesCount"`
	Achievements       []Achievement    `json:"achievements"`
}

// Engine computes snapshots in a fixed location
type Engine struct {
	Location *time.Location
	Clock    Clock
	// TopN bounds Snapshot.TopTechniques
	TopN int
}

// NewEngine creates an engine. A nil location means UTC and a nil clock
// means time.Now.
func NewEngine(loc *time.Location, clock Clock, topN int) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	if clock == nil {
		clock = time.Now
	}
	if topN <= 0 {
		topN = 3
	}
	return &Engine{Location: loc, Clock: clock, TopN: topN}
}

// Today is the current calendar day in the engine's location
func (e *Engine) Today() Day {
	return DayOf(e.now(), e.loc())
}

// Compute derives the snapshot for records. favorites is the size of the
// user's favorite set. An empty record set yields a zero snapshot.
func (e *Engine) Compute(records []session.Record, favorites int) Snapshot {
	loc := e.loc()
	today := DayOf(e.now(), loc)

	ordered := append([]session.Record(nil), records...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OccurredAt.Before(ordered[j].OccurredAt)
	})

	days := PracticeDays(ordered, loc)
	avgMood, samples := AverageMoodImprovement(ordered)
	usage := TechniqueUsage(ordered)

	snap := Snapshot{
		TotalSessions:      len(ordered),
		TotalMinutes:       TotalMinutes(ordered),
		CurrentStreak:      CurrentStreak(days, today),
		LongestStreak:      LongestStreak(days),
		AvgMoodImprovement: avgMood,
		MoodSamples:        samples,
		AvgRating:          AverageRating(ordered),
		WeeklyMinutes:      WeeklyMinutes(ordered, today, loc),
		TechniqueCounts:    usage,
		TopTechniques:      topOf(usage, e.topN()),
		TodaysSessions:     len(TodaysSessions(ordered, today, loc)),
		FavoritesCount:     favorites,
	}
	if len(days) > 0 {
		snap.LastSessionDate = days[0].String()
	}
	if len(usage) > 0 {
		snap.MostPracticed = usage[0].TechniqueID
	}
	if snap.TechniqueCounts == nil {
		snap.TechniqueCounts = []TechniqueCount{}
	}
	snap.Achievements = Achievements(snap)
	return snap
}

// Stats is the summary exposed by the stats endpoint
type Stats struct {
	TotalSessions      int     `json:"totalSessions"`
	TotalMinutes       int     `json:"totalMinutes"`
	AvgMoodImprovement float64 `json:"avgMoodImprovement"`
	AvgRating          float64 `json:"avgRating"`
	CurrentStreak      int     `json:"currentStreak"`
	LongestStreak      int     `json:"longestStreak"`
}

// Stats narrows a snapshot to the summary fields
func (s Snapshot) Stats() Stats {
	return Stats{
		TotalSessions:      s.TotalSessions,
		TotalMinutes:       s.TotalMinutes,
		AvgMoodImprovement: s.AvgMoodImprovement,
		AvgRating:          s.AvgRating,
		CurrentStreak:      s.CurrentStreak,
		LongestStreak:      s.LongestStreak,
	}
}

func topOf(usage []TechniqueCount, n int) []TechniqueCount {
	if len(usage) > n {
		usage = usage[:n]
	}
	return append([]TechniqueCount{}, usage...)
}

func (e *Engine) loc() *time.Location {
	if e == nil || e.Location == nil {
		return time.UTC
	}
	return e.Location
}

func (e *Engine) now() time.Time {
	if e == nil || e.Clock == nil {
		return time.Now()
	}
	return e.Clock()
}

func (e *Engine) topN() int {
	if e == nil || e.TopN <= 0 {
		return 3
	}
	return e.TopN
}
