package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ssmpass/ssmpass/internal/config"
)

func NewExistsCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exists <login>",
		Short: "Check whether a login exists",
		Long: `Print 'true' or 'false' depending on whether the login has a record.
Unlike 'get', an absent login is a normal result, not an error.

Examples:
  ssmpass exists alice`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			login := args[0]

			mgr, err := newManager(cfg)
			if err != nil {
				return err
			}

			ok, err := mgr.Exists(cmd.Context(), login)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatBool(ok))
			return nil
		},
	}

	return cmd
}
