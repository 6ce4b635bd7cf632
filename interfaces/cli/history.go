package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newHistoryCommand(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				return fmt.Errorf("--limit must be > 0")
			}
			return withJournal(cmd.Context(), opts, func(e *env) error {
				sessions := e.journal.Sessions()

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "DATE\tTECHNIQUE\tDURATION\tCOMPLETED\tMOOD")
				for i := len(sessions) - 1; i >= 0 && len(sessions)-i <= limit; i-- {
					s := sessions[i]
					mood := "-"
					if delta, ok := s.MoodDelta(); ok {
						mood = fmt.Sprintf("%+d", delta)
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n",
						s.OccurredAt.In(e.rules.Location()).Format("2006-01-02 15:04"),
						s.TechniqueID, formatSeconds(s.DurationSeconds), s.Completed, mood)
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum sessions to show")
	return cmd
}
