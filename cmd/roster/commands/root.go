package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alextreichler/shopfront/cmd/roster/tui"
	"github.com/alextreichler/shopfront/internal/config"
	"github.com/alextreichler/shopfront/internal/models"
	"github.com/alextreichler/shopfront/internal/output"
)

// app carries the connection form values every subcommand shares.
type app struct {
	cfg        config.RosterConfig
	jsonOutput bool
	connect    tui.ConnectFunc
}

// NewRootCmd builds the roster command tree. Flag defaults come from the
// ROSTER_* environment.
func NewRootCmd() *cobra.Command {
	return newRootCmd(tui.RosterConnect)
}

func newRootCmd(connect tui.ConnectFunc) *cobra.Command {
	a := &app{cfg: config.LoadRosterConfig(), connect: connect}

	root := &cobra.Command{
		Use:   "roster",
		Short: "Manage a student table in PostgreSQL",
		Long: `roster lists, adds and deletes students (mssv, hoten) in a PostgreSQL table.

Run "roster ui" for the interactive screen, or use the subcommands directly.
Connection defaults come from ROSTER_DB_NAME, ROSTER_DB_USER, ROSTER_DB_PASSWORD,
ROSTER_DB_HOST, ROSTER_DB_PORT and ROSTER_TABLE.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.Writer = cmd.OutOrStdout()
			// Logs go to stderr so they never interleave with table output.
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn})))
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfg.Conn.DBName, "dbname", a.cfg.Conn.DBName, "Database name")
	flags.StringVar(&a.cfg.Conn.User, "user", a.cfg.Conn.User, "Database user")
	flags.StringVar(&a.cfg.Conn.Password, "password", a.cfg.Conn.Password, "Database password")
	flags.StringVar(&a.cfg.Conn.Host, "host", a.cfg.Conn.Host, "Database host")
	flags.Uint16Var(&a.cfg.Conn.Port, "port", a.cfg.Conn.Port, "Database port")
	flags.StringVar(&a.cfg.Table, "table", a.cfg.Table, "Student table name")
	flags.BoolVar(&a.jsonOutput, "json", false, "Output in JSON format")

	root.AddCommand(
		newListCmd(a),
		newAddCmd(a),
		newDeleteCmd(a),
		newInitCmd(a),
		newUICmd(a),
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

// withRepo connects, runs fn and closes the connection.
func (a *app) withRepo(ctx context.Context, fn func(tui.Repository) error) error {
	repo, err := a.connect(ctx, a.cfg.Conn)
	if err != nil {
		return err
	}
	defer repo.Close(context.Background())
	return fn(repo)
}

func (a *app) printStudents(w io.Writer, students []models.Student) error {
	if a.jsonOutput {
		if students == nil {
			students = []models.Student{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(students)
	}

	if len(students) == 0 {
		output.Warning("%s is empty", a.cfg.Table)
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MSSV\tHọ tên")
	for _, s := range students {
		fmt.Fprintf(tw, "%s\t%s\n", s.MSSV, s.FullName)
	}
	return tw.Flush()
}
