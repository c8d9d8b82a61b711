package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssmpass/ssmpass/internal/config"
)

func NewListCommand(cfg *config.Config) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all logins",
		Long: `List the logical login names stored under the configured prefix,
one per line, sorted. The prefix itself is stripped.

Examples:
  ssmpass list
  ssmpass --prefix /staging/passwords/ list
  ssmpass list --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := newManager(cfg)
			if err != nil {
				return err
			}

			logins, err := mgr.List(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(logins)
			}

			if len(logins) == 0 {
				logger(cfg).Info("No logins found under prefix %s", mgr.Prefix())
				return nil
			}
			for _, login := range logins {
				fmt.Fprintln(cmd.OutOrStdout(), login)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as a JSON array")

	return cmd
}
