package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssmpass/ssmpass/internal/config"
)

func NewCreateCommand(cfg *config.Config) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "create <login>",
		Short: "Create a new login",
		Long: `Create a new login with a password. If --password is not given, a
cryptographically random 16-character password is generated and printed
to stdout.

Creation is conditional: if the login already exists the command fails
and the existing record is left untouched.

Examples:
  ssmpass create alice
  ssmpass create bob --password 'Secret123!'
  NEW_PW=$(ssmpass create deploy-bot)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			login := args[0]

			mgr, err := newManager(cfg)
			if err != nil {
				return err
			}

			stored, err := mgr.Create(cmd.Context(), login, password)
			if err != nil {
				return err
			}

			if password != "" {
				logger(cfg).Info("Login '%s' created", login)
				return nil
			}
			// The generated password is the only copy; print it raw so it
			// can be captured by scripts.
			logger(cfg).Info("Login '%s' created with generated password", login)
			fmt.Fprintln(cmd.OutOrStdout(), stored)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Password to store (generated when omitted)")

	return cmd
}
