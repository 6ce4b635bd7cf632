// Package cli is the offline breathe command line. It keeps one local
// profile in a SQLite key-value store and never talks to the API.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"breathe-backend/application/offline"
	domainconfig "breathe-backend/domain/config"
	"breathe-backend/domain/progress"
	"breathe-backend/domain/runtime"
	"breathe-backend/domain/technique"
	"breathe-backend/infrastructure/catalog"
	"breathe-backend/infrastructure/persistence/sqlite"
)

// localUserID owns every record of an offline install
const localUserID = "local"

type options struct {
	dbPath         string
	techniquesPath string
	timezone       string
	verbose        bool

	// clock drives guided sessions; tests swap in a faster one
	clock runtime.Clock
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	return newRootCommand(&options{clock: runtime.SystemClock{}})
}

func newRootCommand(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:           "breathe",
		Short:         "breathe guides breathing sessions and tracks your streak",
		Long:          "breathe is a local-first breathing coach: guided sessions, a practice journal, streaks and favorites.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "Path to SQLite database")
	root.PersistentFlags().StringVar(&opts.techniquesPath, "techniques", "", "Path to a techniques JSON file (defaults to the bundled catalog)")
	root.PersistentFlags().StringVar(&opts.timezone, "tz", "Local", "Timezone that decides which day a session counts toward")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log storage warnings")

	root.AddCommand(
		newTechniquesCommand(opts),
		newSessionCommand(opts),
		newLogCommand(opts),
		newHistoryCommand(opts),
		newProgressCommand(opts),
		newFavoriteCommand(opts),
		newProfileCommand(opts),
		newResetCommand(opts),
	)
	return root
}

// env is everything a command needs once the database is open
type env struct {
	rules   *domainconfig.DomainConfig
	catalog *technique.Catalog
	journal *offline.Journal
	logger  *zap.Logger
}

// withJournal opens the local store, loads the journal and runs fn
func withJournal(ctx context.Context, opts *options, fn func(*env) error) error {
	path, err := resolveDBPath(opts.dbPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}

	store, err := sqlite.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	e, err := newEnv(opts)
	if err != nil {
		return err
	}
	defer func() { _ = e.logger.Sync() }()

	engine := progress.NewEngine(e.rules.Location(), nil, e.rules.TopTechniquesLimit)
	e.journal = offline.Open(ctx, store, engine, localUserID, e.logger)
	return fn(e)
}

func newEnv(opts *options) (*env, error) {
	rules := domainconfig.DefaultDomainConfig()
	loc, err := loadLocation(opts.timezone)
	if err != nil {
		return nil, err
	}
	rules.StreakLocation = loc

	c, err := catalog.Load(opts.techniquesPath)
	if err != nil {
		return nil, err
	}

	logger := zap.NewNop()
	if opts.verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return nil, err
		}
	}
	return &env{rules: rules, catalog: c, logger: logger}, nil
}

func resolveDBPath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	if env := os.Getenv("BREATHE_DB"); env != "" {
		return env, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, "breathe", "breathe.db"), nil
}
