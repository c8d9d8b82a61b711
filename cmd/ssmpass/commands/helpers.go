// Package commands contains one constructor per ssmpass subcommand. Each
// command resolves the manager from the shared config, runs exactly one
// manager operation, and writes results to stdout and status to stderr.
package commands

import (
	"github.com/ssmpass/ssmpass/internal/backends"
	"github.com/ssmpass/ssmpass/internal/config"
	sperrors "github.com/ssmpass/ssmpass/internal/errors"
	"github.com/ssmpass/ssmpass/internal/logging"
	"github.com/ssmpass/ssmpass/internal/manager"
	"github.com/ssmpass/ssmpass/pkg/store"
)

// newStore builds the configured backend, or returns the injected test store.
func newStore(cfg *config.Config) (store.KeyValueStore, error) {
	if cfg.Store != nil {
		return cfg.Store, nil
	}

	awsCfg := backends.AWSConfig{
		Region:  cfg.Region,
		Profile: cfg.Profile,
	}
	if def := cfg.Definition; def != nil {
		awsCfg.Endpoint = def.Endpoint
		awsCfg.AccessKeyID = def.AccessKeyID
		awsCfg.SecretAccessKey = def.SecretAccessKey
	}

	var (
		kv  store.KeyValueStore
		err error
	)
	switch cfg.Backend {
	case config.BackendSecretsManager:
		kv, err = backends.NewSecretsManager(awsCfg)
	default:
		kv, err = backends.NewSSM(awsCfg)
	}
	if err != nil {
		return nil, sperrors.Store("initialize storage backend", "", err)
	}
	return kv, nil
}

// newManager builds the credential manager for the resolved configuration.
func newManager(cfg *config.Config) (*manager.Manager, error) {
	kv, err := newStore(cfg)
	if err != nil {
		return nil, err
	}
	return manager.New(kv,
		manager.WithPrefix(cfg.Prefix),
		manager.WithLogger(cfg.Logger),
	), nil
}

// logger returns the configured logger, or a quiet default for tests that
// construct commands without going through the root command.
func logger(cfg *config.Config) *logging.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return logging.New(false, true)
}
