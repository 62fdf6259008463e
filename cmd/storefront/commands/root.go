package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/alextreichler/shopfront/internal/config"
	"github.com/alextreichler/shopfront/internal/output"
	"github.com/alextreichler/shopfront/internal/store"
)

// app is the state shared by every subcommand once the root pre-run has
// loaded the configuration.
type app struct {
	cfg *config.Config
}

// NewRootCmd builds the storefront command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "storefront",
		Short: "Keyboard shop web storefront",
		Long: `storefront runs the keyboard shop website and the chores around it.

Configuration comes from the environment (or a .env file):
  PORT, DB_DRIVER (sqlite|postgres), DATABASE_URL, SESSION_KEY, CSRF_KEY,
  COOKIE_DOMAIN, COOKIE_SECURE, REGISTER_RATE_WINDOW, LOG_LEVEL`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			output.Writer = cmd.OutOrStdout()
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))
			a.cfg = cfg
			return nil
		},
	}

	root.AddCommand(
		newServeCmd(a),
		newMigrateCmd(a),
		newSeedCmd(a),
		newAddUserCmd(a),
		newStatsCmd(a),
	)
	return root
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		output.Error("%v", err)
		os.Exit(1)
	}
}

// openStore connects to the configured database and brings the schema up to
// date.
func (a *app) openStore(ctx context.Context) (*store.Store, error) {
	db, err := store.NewStore(a.cfg.DBDriver, a.cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
