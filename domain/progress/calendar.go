package progress

import "time"

// Day is a calendar date expressed as days since 1970-01-01. Two instants
// map to the same Day when they share a year, month and day in the
// engine's location, regardless of DST shifts.
type Day int64

// DayOf reduces t to its calendar day in loc
func DayOf(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return Day(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// Time returns midnight UTC of the day, suitable for formatting
func (d Day) Time() time.Time {
	return time.Unix(int64(d)*86400, 0).UTC()
}

// String formats the day as YYYY-MM-DD
func (d Day) String() string {
	return d.Time().Format("2006-01-02")
}
