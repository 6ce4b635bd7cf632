package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"breathe-backend/domain/runtime"
)

func newSessionCommand(opts *options) *cobra.Command {
	var duration int

	cmd := &cobra.Command{
		Use:   "session <technique-id>",
		Short: "Run a guided session and record it",
		Long:  "Run a guided session in real time. Interrupt (Ctrl+C) finishes early and still records the time practised.",
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

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return withJournal(ctx, opts, func(e *env) error {
				t, ok := e.catalog.Get(args[0])
				if !ok {
					return fmt.Errorf("unknown technique %q", args[0])
				}

				state, err := runtime.New(t, duration)
				if errors.Is(err, runtime.ErrUnsupportedDuration) {
					return fmt.Errorf("--duration must be one of %s seconds", joinInts(t.DurationPresets()))
				}
				if err != nil {
					return err
				}
				if preMood != nil {
					if state, err = state.SetPreMood(*preMood); err != nil {
						return err
					}
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s for %s\n", t.Name, formatSeconds(state.Target))

				runner := runtime.NewRunner(state, opts.clock, e.journal, localUserID, e.rules.CompletionRatio)
				printPhase := func(s runtime.State) {
					p := s.CurrentPhase()
					line := fmt.Sprintf("  %-8s %ds  (%s left)", p.Name, p.Seconds(), formatSeconds(s.Remaining()))
					if p.Instruction != "" {
						line += "  " + p.Instruction
					}
					fmt.Fprintln(out, line)
				}
				printPhase(state)

				// OnTick runs on the ticker goroutine only
				lastPhase := state.PhaseIndex
				runner.OnTick = func(s runtime.State) {
					if s.Status != runtime.StatusActive || s.PhaseIndex == lastPhase {
						return
					}
					lastPhase = s.PhaseIndex
					printPhase(s)
				}

				if err := runner.Start(); err != nil {
					return err
				}

				select {
				case <-runner.Done():
				case <-ctx.Done():
					if err := runner.Finish(); err != nil && !errors.Is(err, runtime.ErrInvalidTransition) {
						return err
					}
					fmt.Fprintln(out, "Finished early")
				}

				rec, err := runner.Complete(context.WithoutCancel(ctx), postMood, rating)
				if err != nil {
					return err
				}
				current, longest := e.journal.Streaks()
				status := "incomplete"
				if rec.Completed {
					status = "completed"
				}
				fmt.Fprintf(out, "Recorded %s of %s (%s). Streak: %d day(s), best %d\n",
					formatSeconds(rec.DurationSeconds), t.ID, status, current, longest)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&duration, "duration", "d", 0, "Session length in seconds (defaults to the technique's recommendation)")
	cmd.Flags().Int("pre-mood", 0, "Mood before the session, 1-5")
	cmd.Flags().Int("post-mood", 0, "Mood after the session, 1-5")
	cmd.Flags().Int("rating", 0, "Session rating, 1-5")
	return cmd
}

func joinInts(vs []int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}
