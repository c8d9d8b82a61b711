package commands

import (
	"github.com/spf13/cobra"

	"github.com/ssmpass/ssmpass/internal/config"
	sperrors "github.com/ssmpass/ssmpass/internal/errors"
	"github.com/ssmpass/ssmpass/internal/manager"
	"github.com/ssmpass/ssmpass/pkg/store"
)

func NewDoctorCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and backend connectivity",
		Long: `Report the resolved configuration, verify the storage backend is
reachable with the current credentials, and count the logins under the
configured prefix.

Examples:
  ssmpass doctor
  ssmpass --backend secretsmanager doctor`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger(cfg)
			log.Info("Backend: %s", cfg.Backend)
			log.Info("Prefix: %s", cfg.Prefix)
			if cfg.Region != "" {
				log.Info("Region: %s", cfg.Region)
			}
			if cfg.Profile != "" {
				log.Info("Profile: %s", cfg.Profile)
			}

			kv, err := newStore(cfg)
			if err != nil {
				return err
			}

			if v, ok := kv.(store.Validator); ok {
				if err := v.Validate(cmd.Context()); err != nil {
					return sperrors.Store("connect to the storage backend", "", err)
				}
				log.Info("Backend is reachable")
			}

			mgr := manager.New(kv,
				manager.WithPrefix(cfg.Prefix),
				manager.WithLogger(cfg.Logger),
			)
			logins, err := mgr.List(cmd.Context())
			if err != nil {
				return err
			}
			log.Info("Found %d login(s) under %s", len(logins), mgr.Prefix())
			return nil
		},
	}

	return cmd
}
