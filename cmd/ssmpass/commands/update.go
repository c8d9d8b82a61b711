package commands

import (
	"github.com/spf13/cobra"

	"github.com/ssmpass/ssmpass/internal/config"
)

func NewUpdateCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <login> <password>",
		Short: "Update the password for an existing login",
		Long: `Overwrite the password of an existing login. Fails if the login does
not exist; use 'create' for new logins.

Examples:
  ssmpass update bob 'NewSecret456!'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			login, password := args[0], args[1]

			mgr, err := newManager(cfg)
			if err != nil {
				return err
			}

			if err := mgr.Update(cmd.Context(), login, password); err != nil {
				return err
			}

			logger(cfg).Info("Password for login '%s' updated", login)
			return nil
		},
	}

	return cmd
}
