package commands

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ssmpass/ssmpass/internal/config"
)

func NewInfoCommand(cfg *config.Config) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "info <login>",
		Short: "Show metadata for a login without revealing the password",
		Long: `Display the storage key, description, type, version, last-modified
timestamp and tags of a login. The password itself is never shown, so
this works with read-metadata-only permissions.

Examples:
  ssmpass info alice
  ssmpass info alice --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			login := args[0]

			mgr, err := newManager(cfg)
			if err != nil {
				return err
			}

			info, err := mgr.Info(cmd.Context(), login)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(info)
			}

			fmt.Fprintf(out, "Login:         %s\n", info.Login)
			fmt.Fprintf(out, "Key:           %s\n", info.Key)
			if info.Description != "" {
				fmt.Fprintf(out, "Description:   %s\n", info.Description)
			}
			if info.Type != "" {
				fmt.Fprintf(out, "Type:          %s\n", info.Type)
			}
			if info.Version != 0 {
				fmt.Fprintf(out, "Version:       %d\n", info.Version)
			}
			if !info.LastModified.IsZero() {
				fmt.Fprintf(out, "Last Modified: %s\n", info.LastModified.Format(time.RFC3339))
			}
			if len(info.Tags) > 0 {
				pairs := make([]string, 0, len(info.Tags))
				for k, v := range info.Tags {
					pairs = append(pairs, k+"="+v)
				}
				sort.Strings(pairs)
				fmt.Fprintf(out, "Tags:          %s\n", strings.Join(pairs, " "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
