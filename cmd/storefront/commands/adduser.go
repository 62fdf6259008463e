package commands

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/alextreichler/shopfront/internal/auth"
	"github.com/alextreichler/shopfront/internal/models"
	"github.com/alextreichler/shopfront/internal/output"
)

func newAddUserCmd(a *app) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "add-user",
		Short: "Create a customer account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			username = strings.TrimSpace(username)
			if username == "" || password == "" {
				return errors.New("username and password are required")
			}
			if utf8.RuneCountInString(username) > models.MaxUsernameLen {
				return fmt.Errorf("username must be at most %d characters", models.MaxUsernameLen)
			}
			if len(password) > auth.MaxPasswordBytes {
				return auth.ErrPasswordTooLong
			}

			db, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			hashed, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			user, err := db.CreateUser(cmd.Context(), username, hashed)
			if err != nil {
				return err
			}

			output.Success("User '%s' created (id %d)", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username for the new user")
	cmd.Flags().StringVar(&password, "password", "", "Password for the new user")
	return cmd
}
