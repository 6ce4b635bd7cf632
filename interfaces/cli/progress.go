package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var sparkBlocks = []string{" ", "▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

func newProgressCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show streaks, totals and achievements",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(cmd.Context(), opts, func(e *env) error {
				snap := e.journal.Snapshot()
				out := cmd.OutOrStdout()

				fmt.Fprintf(out, "Sessions:        %d (%d today)\n", snap.TotalSessions, snap.TodaysSessions)
				fmt.Fprintf(out, "Minutes:         %d\n", snap.TotalMinutes)
				fmt.Fprintf(out, "Current streak:  %d day(s)\n", snap.CurrentStreak)
				fmt.Fprintf(out, "Longest streak:  %d day(s)\n", snap.LongestStreak)
				if snap.MoodSamples > 0 {
					fmt.Fprintf(out, "Mood change:     %+.1f avg over %d session(s)\n", snap.AvgMoodImprovement, snap.MoodSamples)
				}
				if snap.AvgRating > 0 {
					fmt.Fprintf(out, "Rating:          %.1f avg\n", snap.AvgRating)
				}
				if snap.MostPracticed != "" {
					fmt.Fprintf(out, "Most practiced:  %s\n", snap.MostPracticed)
				}
				fmt.Fprintf(out, "Last 7 days:     %s  %v min\n", sparkline(snap.WeeklyMinutes[:]), snap.WeeklyMinutes)

				fmt.Fprintln(out, "Achievements:")
				for _, a := range snap.Achievements {
					mark := " "
					if a.Unlocked {
						mark = "x"
					}
					fmt.Fprintf(out, "  [%s] %s - %s\n", mark, a.Title, a.Description)
				}
				return nil
			})
		},
	}
}

func sparkline(values []int) string {
	peak := 0
	for _, v := range values {
		peak = max(peak, v)
	}
	var b strings.Builder
	for _, v := range values {
		idx := 0
		if peak > 0 {
			idx = (v*(len(sparkBlocks)-1) + peak - 1) / peak
		}
		b.WriteString(sparkBlocks[idx])
	}
	return b.String()
}
