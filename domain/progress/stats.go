package progress

import (
	"sort"
	"time"

	"breathe-backend/domain/session"
)

// TotalMinutes sums whole minutes per record. Each record is truncated on
// its own before summing.
func TotalMinutes(records []session.Record) int {
	total := 0
	for _, r := range records {
		total += r.Minutes()
	}
	return total
}

// PracticeDays returns the unique practice days, most recent first
func PracticeDays(records []session.Record, loc *time.Location) []Day {
	seen := make(map[Day]struct{}, len(records))
	days := make([]Day, 0, len(records))
	for _, r := range records {
		d := DayOf(r.OccurredAt, loc)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] > days[j] })
	return days
}

// CurrentStreak counts consecutive practice days ending today or yesterday.
// days must be unique and sorted most recent first. A latest day older than
// yesterday means the streak has lapsed.
func CurrentStreak(days []Day, today Day) int {
	if len(days) == 0 {
		return 0
	}
	if days[0] != today && days[0] != today-1 {
		return 0
	}
	streak := 1
	for i := 1; i < len(days); i++ {
		if days[i-1]-days[i] != 1 {
			break
		}
		streak++
	}
	return streak
}

// LongestStreak is the longest run of consecutive practice days anywhere in
// the history. days must be unique and sorted most recent first.
func LongestStreak(days []Day) int {
	if len(days) == 0 {
		return 0
	}
	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i-1]-days[i] == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// AverageMoodImprovement is the mean of postMood-preMood over records that
// carry both moods. It returns the sample count alongside the mean.
func AverageMoodImprovement(records []session.Record) (float64, int) {
	sum, n := 0, 0
	for _, r := range records {
		if d, ok := r.MoodDelta(); ok {
			sum += d
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	return float64(sum) / float64(n), n
}

// AverageRating is the mean rating over records that carry one
func AverageRating(records []session.Record) float64 {
	sum, n := 0, 0
	for _, r := range records {
		if r.Rating != nil && *r.Rating > 0 {
			sum += *r.Rating
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// WeeklyMinutes buckets minutes by days ago. Index 6 is today and index 0
// is six days ago. Records outside that window, including future ones, are
// ignored.
func WeeklyMinutes(records []session.Record, today Day, loc *time.Location) [7]int {
	var week [7]int
	for _, r := range records {
		ago := today - DayOf(r.OccurredAt, loc)
		if ago < 0 || ago > 6 {
			continue
		}
		week[6-ago] += r.Minutes()
	}
	return week
}

// TechniqueCount is the number of sessions recorded for a technique
type TechniqueCount struct {
	TechniqueID string `json:"techniqueId"`
	Count       int    `json:"count"`
}

// TechniqueUsage counts sessions per technique, most used first. Ties keep
// the order in which each technique was first seen in records.
func TechniqueUsage(records []session.Record) []TechniqueCount {
	index := make(map[string]int)
	var usage []TechniqueCount
	for _, r := range records {
		if r.TechniqueID == "" {
			continue
		}
		i, ok := index[r.TechniqueID]
		if !ok {
			i = len(usage)
			index[r.TechniqueID] = i
			usage = append(usage, TechniqueCount{TechniqueID: r.TechniqueID})
		}
		usage[i].Count++
	}
	sort.SliceStable(usage, func(i, j int) bool { return usage[i].Count > usage[j].Count })
	return usage
}

// TopTechniques returns the n most used techniques
func TopTechniques(records []session.Record, n int) []TechniqueCount {
	usage := TechniqueUsage(records)
	if n >= 0 && len(usage) > n {
		usage = usage[:n]
	}
	return usage
}

// TodaysSessions returns the records that fall on today
func TodaysSessions(records []session.Record, today Day, loc *time.Location) []session.Record {
	var out []session.Record
	for _, r := range records {
		if DayOf(r.OccurredAt, loc) == today {
			out = append(out, r)
		}
	}
	return out
}
