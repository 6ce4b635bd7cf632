package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCommand(opts *options) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every local session, favorite and profile setting",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset deletes all local data; pass --yes to confirm")
			}
			return withJournal(cmd.Context(), opts, func(e *env) error {
				e.journal.Reset(cmd.Context())
				fmt.Fprintln(cmd.OutOrStdout(), "Local data cleared")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	return cmd
}
