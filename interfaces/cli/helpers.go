package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func loadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid --tz %q", name)
	}
	return loc, nil
}

// scoreFlag returns the flag value when the user set it
func scoreFlag(cmd *cobra.Command, name string) (*int, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		return nil, err
	}
	if v < 1 || v > 5 {
		return nil, fmt.Errorf("--%s must be between 1 and 5", name)
	}
	return &v, nil
}

func formatSeconds(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
