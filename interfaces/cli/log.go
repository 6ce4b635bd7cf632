package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"breathe-backend/domain/session"
)

func newLogCommand(opts *options) *cobra.Command {
	var (
		duration  int
		completed bool
		date      string
		notes     string
	)

	cmd := &cobra.Command{
		Use:   "log <technique-id>",
		Short: "Record a session practised without the guide",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			preMood, err := scoreFlag(cmd, "pre-mood")
			if err != nil {
				return err
			}
			postMood, err := scoreFlag(cmd, "post-mood")
			if err != nil {
				return err
			}
			rating, err := scoreFlag(cmd, "rating")
			if err != nil {
				return err
			}

			return withJournal(cmd.Context(), opts, func(e *env) error {
				if _, ok := e.catalog.Get(args[0]); !ok {
					return fmt.Errorf("unknown technique %q", args[0])
				}

				occurredAt := time.Now()
				if date != "" {
					occurredAt, err = time.ParseInLocation("2006-01-02", date, e.rules.Location())
					if err != nil {
						return fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", date)
					}
					occurredAt = occurredAt.Add(12 * time.Hour)
				}

				rec := session.Record{
					ID:              session.NewID(),
					UserID:          localUserID,
					TechniqueID:     args[0],
					OccurredAt:      occurredAt.UTC(),
					DurationSeconds: duration,
					Completed:       completed,
					PreMood:         preMood,
					PostMood:        postMood,
					Rating:          rating,
					Notes:           notes,
				}
				if err := rec.Validate(e.rules); err != nil {
					return err
				}
				if err := e.journal.SaveRecord(cmd.Context(), rec); err != nil {
					return err
				}

				current, longest := e.journal.Streaks()
				fmt.Fprintf(cmd.OutOrStdout(), "Logged %s of %s on %s. Streak: %d day(s), best %d\n",
					formatSeconds(duration), rec.TechniqueID, occurredAt.In(e.rules.Location()).Format("2006-01-02"), current, longest)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&duration, "duration", "d", 300, "Seconds practised")
	cmd.Flags().BoolVar(&completed, "completed", true, "Whether the full session was completed")
	cmd.Flags().StringVar(&date, "date", "", "Day practised, YYYY-MM-DD (defaults to now)")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	cmd.Flags().Int("pre-mood", 0, "Mood before the session, 1-5")
	cmd.Flags().Int("post-mood", 0, "Mood after the session, 1-5")
	cmd.Flags().Int("rating", 0, "Session rating, 1-5")
	return cmd
}
