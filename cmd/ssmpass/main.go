package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssmpass/ssmpass/cmd/ssmpass/commands"
	"github.com/ssmpass/ssmpass/internal/config"
	sperrors "github.com/ssmpass/ssmpass/internal/errors"
	"github.com/ssmpass/ssmpass/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		// Each error kind gets its own exit code so scripts can branch
		// on the failure class.
		os.Exit(sperrors.ExitCode(err))
	}
}

func run() error {
	// Global flags
	var (
		configFile string
		prefix     string
		region     string
		profile    string
		backend    string
		noColor    bool
		debug      bool
	)

	// Config placeholder filled in once flags are parsed
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "ssmpass",
		Short: "Manage login/password pairs in an encrypted AWS parameter store",
		Long: `ssmpass stores each login as an encrypted value under a configurable
prefix and manages the full lifecycle: create, get, update, rotate,
inspect and delete. Generated passwords are cryptographically random and
always mix upper/lower case letters, digits and symbols.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg.Path = configFile
			cfg.Prefix = prefix
			cfg.Region = region
			cfg.Profile = profile
			cfg.Backend = backend
			cfg.Logger = logging.New(debug, noColor)
			return cfg.Load()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file path (default ssmpass.yaml)")
	rootCmd.PersistentFlags().StringVar(&prefix, "prefix", "", "Storage key prefix (default /passwords/)")
	rootCmd.PersistentFlags().StringVar(&region, "region", "", "AWS region (uses SDK default if not specified)")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "AWS shared config profile")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Storage backend: ssm or secretsmanager (default ssm)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		commands.NewListCommand(cfg),
		commands.NewCreateCommand(cfg),
		commands.NewGetCommand(cfg),
		commands.NewUpdateCommand(cfg),
		commands.NewRotateCommand(cfg),
		commands.NewExistsCommand(cfg),
		commands.NewInfoCommand(cfg),
		commands.NewDeleteCommand(cfg),
		commands.NewDoctorCommand(cfg),
	)

	return rootCmd.Execute()
}
