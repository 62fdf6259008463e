package commands

import (
	"github.com/spf13/cobra"

	"github.com/alextreichler/shopfront/cmd/roster/tui"
	"github.com/alextreichler/shopfront/internal/models"
	"github.com/alextreichler/shopfront/internal/output"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every student in the table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRepo(cmd.Context(), func(repo tui.Repository) error {
				students, err := repo.Load(cmd.Context(), a.cfg.Table)
				if err != nil {
					return err
				}
				return a.printStudents(cmd.OutOrStdout(), students)
			})
		},
	}
}

func newAddCmd(a *app) *cobra.Command {
	var s models.Student

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Insert a student, then print the table",
		Example: `  roster add --mssv 20520001 --name "Nguyen Van A"
  roster add --table lop_k21 --mssv 21520002 --name "Tran Thi B"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRepo(cmd.Context(), func(repo tui.Repository) error {
				if err := repo.Insert(cmd.Context(), a.cfg.Table, s); err != nil {
					return err
				}
				if !a.jsonOutput {
					output.Success("Inserted %s (%s)", s.MSSV, s.FullName)
				}

				students, err := repo.Load(cmd.Context(), a.cfg.Table)
				if err != nil {
					return err
				}
				return a.printStudents(cmd.OutOrStdout(), students)
			})
		},
	}

	cmd.Flags().StringVar(&s.MSSV, "mssv", "", "Student id")
	cmd.Flags().StringVar(&s.FullName, "name", "", "Full name (họ tên)")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete MSSV...",
		Short: "Delete students by id",
		Long: `Delete students by id. Each id is deleted by its own statement, so when one
fails the ones before it stay deleted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRepo(cmd.Context(), func(repo tui.Repository) error {
				n, err := repo.Delete(cmd.Context(), a.cfg.Table, args)
				if err != nil {
					if n > 0 {
						output.Warning("deleted %d student(s) before the failure", n)
					}
					return err
				}
				if n < len(args) {
					output.Warning("%d id(s) matched no row", len(args)-n)
				}
				output.Success("deleted %d student(s)", n)
				return nil
			})
		},
	}
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the student table if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRepo(cmd.Context(), func(repo tui.Repository) error {
				if err := repo.EnsureTable(cmd.Context(), a.cfg.Table); err != nil {
					return err
				}
				output.Success("Table %s is ready", a.cfg.Table)
				return nil
			})
		},
	}
}

func newUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive roster screen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(a.cfg, a.connect)
		},
	}
}
