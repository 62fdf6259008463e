package commands

import (
	"github.com/spf13/cobra"

	"github.com/alextreichler/shopfront/internal/output"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		Long: `Apply every schema migration that has not run yet. Applied versions are
recorded in schema_migrations, so running it twice is harmless.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := db.AppliedMigrations(cmd.Context())
			if err != nil {
				return err
			}
			for _, v := range applied {
				output.Muted("  %s", v)
			}
			output.Success("Schema is up to date (%d migration(s) applied)", len(applied))
			return nil
		},
	}
}
