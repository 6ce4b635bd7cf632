package progress

// Achievement is a milestone badge
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
}

type milestone struct {
	id, title, description string
	reached                func(Snapshot) bool
}

var milestones = []milestone{
	{"first-breath", "First Breath", "Complete your first session", func(s Snapshot) bool { return s.TotalSessions >= 1 }},
	{"week-warrior", "Week Warrior", "Reach a 7 day streak", func(s Snapshot) bool { return s.LongestStreak >= 7 }},
	{"dedicated", "Dedicated", "Complete 30 sessions", func(s Snapshot) bool { return s.TotalSessions >= 30 }},
	{"mindful-hour", "Mindful Hour", "Practice for 60 minutes in total", func(s Snapshot) bool { return s.TotalMinutes >= 60 }},
	{"master", "Breath Master", "Complete 100 sessions", func(s Snapshot) bool { return s.TotalSessions >= 100 }},
}

// Achievements evaluates every milestone against a snapshot, in a fixed order
func Achievements(s Snapshot) []Achievement {
	out := make([]Achievement, len(milestones))
	for i, m := range milestones {
		out[i] = Achievement{
			ID:          m.id,
			Title:       m.title,
			Description: m.description,
			Unlocked:    m.reached(s),
		}
	}
	return out
}

// NewlyUnlocked returns the achievements unlocked in after but not in before
func NewlyUnlocked(before, after []Achievement) []Achievement {
	had := make(map[string]bool, len(before))
	for _, a := range before {
		if a.Unlocked {
			had[a.ID] = true
		}
	}
	var out []Achievement
	for _, a := range after {
		if a.Unlocked && !had[a.ID] {
			out = append(out, a)
		}
	}
	return out
}
