package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFavoriteCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorite [technique-id]",
		Short: "Toggle a favorite technique, or list favorites",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(cmd.Context(), opts, func(e *env) error {
				out := cmd.OutOrStdout()
				if len(args) == 1 {
					if _, ok := e.catalog.Get(args[0]); !ok {
						return fmt.Errorf("unknown technique %q", args[0])
					}
					if e.journal.ToggleFavorite(cmd.Context(), args[0]) {
						fmt.Fprintf(out, "Added %s to favorites\n", args[0])
					} else {
						fmt.Fprintf(out, "Removed %s from favorites\n", args[0])
					}
				}
				for _, id := range e.journal.Favorites() {
					fmt.Fprintln(out, id)
				}
				return nil
			})
		},
	}
	return cmd
}
