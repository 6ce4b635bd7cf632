package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"breathe-backend/domain/technique"
)

func newTechniquesCommand(opts *options) *cobra.Command {
	var filter technique.Filter
	var goal string

	cmd := &cobra.Command{
		Use:     "techniques",
		Aliases: []string{"ls"},
		Short:   "List breathing techniques",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch filter.Sort {
			case "", technique.SortHealthImpact, technique.SortName, technique.SortDifficulty:
			default:
				return fmt.Errorf("invalid --sort %q (expected health-impact, name or difficulty)", filter.Sort)
			}

			e, err := newEnv(opts)
			if err != nil {
				return err
			}

			var list []technique.Technique
			if goal != "" {
				list = e.catalog.Recommend(goal, e.rules.RecommendationsLimit)
			} else {
				list = e.catalog.List(filter)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RANK\tID\tNAME\tCATEGORY\tDIFFICULTY\tPATTERN")
			for _, t := range list {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", t.HealthImpactRank, t.ID, t.Name, t.Category, t.Difficulty, pattern(t))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&filter.Category, "category", "", "Only techniques in this category")
	cmd.Flags().StringVar(&filter.Difficulty, "difficulty", "", "Only techniques of this difficulty")
	cmd.Flags().StringVar(&filter.Sort, "sort", technique.SortHealthImpact, "Sort by health-impact, name or difficulty")
	cmd.Flags().StringVar(&goal, "goal", "", "Recommend techniques for a goal such as stress, sleep or focus")
	return cmd
}

func pattern(t technique.Technique) string {
	parts := make([]string, 0, len(t.Pattern.Phases))
	for _, p := range t.Pattern.Phases {
		parts = append(parts, fmt.Sprint(p.Seconds()))
	}
	return strings.Join(parts, "-")
}
