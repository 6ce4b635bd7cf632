package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breathe-backend/domain/runtime"
)

// fastClock ticks every millisecond so guided sessions finish quickly
type fastClock struct{}

func (fastClock) Now() time.Time { return time.Now() }

func (fastClock) NewTicker(time.Duration) runtime.Ticker {
	return &fastTicker{t: time.NewTicker(time.Millisecond)}
}

type fastTicker struct{ t *time.Ticker }

func (f *fastTicker) C() <-chan time.Time { return f.t.C }
func (f *fastTicker) Stop()               { f.t.Stop() }

func run(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := newRootCommand(&options{clock: fastClock{}})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append([]string{"--db", db, "--tz", "UTC"}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func tempDB(t *testing.T) string {
	return filepath.Join(t.TempDir(), "nested", "breathe.db")
}

func TestRootHelp(t *testing.T) {
	out, err := run(t, tempDB(t), "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "session")
}

func TestTechniques(t *testing.T) {
	db := tempDB(t)

	out, err := run(t, db, "techniques")
	require.NoError(t, err)
	assert.Contains(t, out, "box-breathing")

	out, err = run(t, db, "techniques", "--goal", "sleep")
	require.NoError(t, err)
	assert.LessOrEqual(t, strings.Count(out, "\n"), 6)

	_, err = run(t, db, "techniques", "--sort", "popularity")
	assert.Error(t, err)
}

func TestLogAndProgress(t *testing.T) {
	// Arrange
	db := tempDB(t)
	today := time.Now().UTC()
	yesterday := today.AddDate(0, 0, -1).Format("2006-01-02")

	// Act
	_, err := run(t, db, "log", "box-breathing", "--date", yesterday, "--duration", "300", "--pre-mood", "2", "--post-mood", "4")
	require.NoError(t, err)
	out, err := run(t, db, "log", "4-7-8", "--duration", "120", "--rating", "5")
	require.NoError(t, err)

	// Assert
	assert.Contains(t, out, "Streak: 2 day(s), best 2")

	out, err = run(t, db, "progress")
	require.NoError(t, err)
	assert.Contains(t, out, "Sessions:        2 (1 today)")
	assert.Contains(t, out, "Minutes:         7")
	assert.Contains(t, out, "Current streak:  2 day(s)")
	assert.Contains(t, out, "Mood change:     +2.0")

	out, err = run(t, db, "history", "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "4-7-8")
	assert.NotContains(t, out, "box-breathing")
}

func TestLogValidation(t *testing.T) {
	db := tempDB(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown technique", []string{"log", "missing"}},
		{"mood out of range", []string{"log", "box-breathing", "--pre-mood", "6"}},
		{"negative duration", []string{"log", "box-breathing", "--duration", "-5"}},
		{"bad date", []string{"log", "box-breathing", "--date", "yesterday"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, db, tt.args...)
			assert.Error(t, err)
		})
	}

	out, err := run(t, db, "progress")
	require.NoError(t, err)
	assert.Contains(t, out, "Sessions:        0")
}

func TestGuidedSession(t *testing.T) {
	db := tempDB(t)

	out, err := run(t, db, "session", "box-breathing", "--duration", "180", "--pre-mood", "2", "--post-mood", "4", "--rating", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded 3:00 of box-breathing (completed)")
	assert.Contains(t, out, "Streak: 1 day(s), best 1")

	_, err = run(t, db, "session", "box-breathing", "--duration", "42")
	assert.Error(t, err)

	out, err = run(t, db, "progress")
	require.NoError(t, err)
	assert.Contains(t, out, "Sessions:        1 (1 today)")
	assert.Contains(t, out, "Minutes:         3")
}

func TestFavoriteToggle(t *testing.T) {
	db := tempDB(t)

	out, err := run(t, db, "favorite", "box-breathing")
	require.NoError(t, err)
	assert.Contains(t, out, "Added box-breathing")

	_, err = run(t, db, "favorite", "4-7-8")
	require.NoError(t, err)

	out, err = run(t, db, "favorite", "box-breathing")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed box-breathing")

	out, err = run(t, db, "favorite")
	require.NoError(t, err)
	assert.Equal(t, "4-7-8\n", out)

	_, err = run(t, db, "favorite", "missing")
	assert.Error(t, err)
}

func TestProfile(t *testing.T) {
	db := tempDB(t)

	out, err := run(t, db, "profile")
	require.NoError(t, err)
	assert.Contains(t, out, "Name:       -")
	assert.Contains(t, out, "Reminders:  on at 09:00")

	_, err = run(t, db, "profile", "--name", "Ada", "--goal", "sleep", "--reminder", "21:15", "--dark-mode")
	require.NoError(t, err)

	out, err = run(t, db, "profile")
	require.NoError(t, err)
	assert.Contains(t, out, "Name:       Ada")
	assert.Contains(t, out, "Goal:       sleep")
	assert.Contains(t, out, "Reminders:  on at 21:15")
	assert.Contains(t, out, "Dark mode:  on")

	out, err = run(t, db, "profile", "--notifications=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Reminders:  off")
	assert.Contains(t, out, "Name:       Ada")

	tests := []struct {
		name string
		args []string
	}{
		{"bad reminder", []string{"profile", "--reminder", "25:99"}},
		{"long name", []string{"profile", "--name", strings.Repeat("n", 51)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, db, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestReset(t *testing.T) {
	db := tempDB(t)
	_, err := run(t, db, "log", "box-breathing")
	require.NoError(t, err)

	_, err = run(t, db, "reset")
	assert.Error(t, err)

	out, err := run(t, db, "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Local data cleared")

	out, err = run(t, db, "progress")
	require.NoError(t, err)
	assert.Contains(t, out, "Sessions:        0")
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "       ", sparkline([]int{0, 0, 0, 0, 0, 0, 0}))
	assert.Equal(t, " ▄    █", sparkline([]int{0, 5, 0, 0, 0, 0, 10}))
}
