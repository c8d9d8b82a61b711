package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssmpass/ssmpass/internal/config"
	"github.com/ssmpass/ssmpass/pkg/password"
)

func NewRotateCommand(cfg *config.Config) *cobra.Command {
	var length int

	cmd := &cobra.Command{
		Use:   "rotate <login>",
		Short: "Rotate the password for an existing login",
		Long: `Replace the password of an existing login with a freshly generated one
and print the new value to stdout. Identity and tags are preserved.

Examples:
  ssmpass rotate alice
  ssmpass rotate alice --length 24`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			login := args[0]

			mgr, err := newManager(cfg)
			if err != nil {
				return err
			}

			newPassword, err := mgr.Rotate(cmd.Context(), login, length)
			if err != nil {
				return err
			}

			logger(cfg).Info("Password for login '%s' rotated", login)
			fmt.Fprintln(cmd.OutOrStdout(), newPassword)
			return nil
		},
	}

	cmd.Flags().IntVar(&length, "length", password.DefaultLength,
		fmt.Sprintf("New password length (minimum %d)", password.MinLength))

	return cmd
}
