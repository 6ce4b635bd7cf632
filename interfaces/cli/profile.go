package cli

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

func newProfileCommand(opts *options) *cobra.Command {
	var (
		name          string
		goal          string
		reminder      string
		notifications bool
		darkMode      bool
	)

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update the local profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(cmd.Context(), opts, func(e *env) error {
				p := e.journal.Profile()
				flags := cmd.Flags()
				changed := false

				if flags.Changed("name") {
					changed = true
					name = strings.TrimSpace(name)
					if utf8.RuneCountInString(name) > e.rules.MaxNameLength {
						return fmt.Errorf("--name must be at most %d characters", e.rules.MaxNameLength)
					}
					p.Name = name
				}
				if flags.Changed("goal") {
					changed = true
					p.Goal = strings.TrimSpace(goal)
				}
				if flags.Changed("reminder") {
					changed = true
					if _, err := time.Parse("15:04", reminder); err != nil {
						return fmt.Errorf("--reminder must look like 07:30")
					}
					p.Settings.ReminderTime = reminder
				}
				if flags.Changed("notifications") {
					changed = true
					p.Settings.Notifications = notifications
				}
				if flags.Changed("dark-mode") {
					changed = true
					p.Settings.DarkMode = darkMode
				}
				if changed {
					e.journal.SetProfile(cmd.Context(), p)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Name:       %s\n", orDash(p.Name))
				fmt.Fprintf(out, "Goal:       %s\n", orDash(p.Goal))
				if p.Settings.Notifications {
					fmt.Fprintf(out, "Reminders:  on at %s\n", p.Settings.ReminderTime)
				} else {
					fmt.Fprintln(out, "Reminders:  off")
				}
				fmt.Fprintf(out, "Dark mode:  %s\n", onOff(p.Settings.DarkMode))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&goal, "goal", "", "Practice goal, e.g. stress-reduction or sleep")
	cmd.Flags().StringVar(&reminder, "reminder", "", "Daily reminder time (HH:MM)")
	cmd.Flags().BoolVar(&notifications, "notifications", true, "Enable reminders")
	cmd.Flags().BoolVar(&darkMode, "dark-mode", false, "Prefer the dark theme")
	return cmd
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
