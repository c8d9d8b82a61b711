package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssmpass/ssmpass/internal/config"
)

func NewGetCommand(cfg *config.Config) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "get <login>",
		Short: "Get the password for a login",
		Long: `Retrieve and decrypt the password for a login. By default only the raw
value is printed, making it suitable for scripting.

Examples:
  ssmpass get alice
  export DB_PASSWORD=$(ssmpass get db-admin)
  ssmpass get alice --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			login := args[0]

			mgr, err := newManager(cfg)
			if err != nil {
				return err
			}

			value, err := mgr.Get(cmd.Context(), login)
			if err != nil {
				return err
			}

			if jsonOutput {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(map[string]string{
					"login":    login,
					"password": value,
				})
			}

			// Raw value, no trailing newline, for command substitution.
			fmt.Fprint(cmd.OutOrStdout(), value)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
