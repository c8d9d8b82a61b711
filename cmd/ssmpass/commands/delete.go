package commands

import (
	"github.com/spf13/cobra"

	"github.com/ssmpass/ssmpass/internal/config"
)

func NewDeleteCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <login>",
		Short: "Delete a login",
		Long: `Remove a login and its password permanently. There is no recovery
window and no tombstone. Deleting an absent login is an error so
double-delete bugs surface instead of passing silently.

Examples:
  ssmpass delete bob`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			login := args[0]

			mgr, err := newManager(cfg)
			if err != nil {
				return err
			}

			if err := mgr.Delete(cmd.Context(), login); err != nil {
				return err
			}

			logger(cfg).Info("Login '%s' deleted", login)
			return nil
		},
	}

	return cmd
}
