// Package config resolves the runtime configuration from flags, an
// optional ssmpass.yaml file, and environment variables, in that order of
// precedence. The resolved Config value is constructed once in main and
// passed down; nothing here is global.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	sperrors "github.com/ssmpass/ssmpass/internal/errors"
	"github.com/ssmpass/ssmpass/internal/logging"
	"github.com/ssmpass/ssmpass/pkg/store"
)

// Supported backends.
const (
	BackendSSM            = "ssm"
	BackendSecretsManager = "secretsmanager"
)

// DefaultPrefix is the storage namespace root when nothing else is configured.
const DefaultPrefix = "/passwords/"

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "ssmpass.yaml"

// Environment variables recognized as defaults.
const (
	EnvPrefix  = "SSMPASS_PREFIX"
	EnvBackend = "SSMPASS_BACKEND"
	EnvRegion  = "SSMPASS_REGION"
	EnvProfile = "SSMPASS_PROFILE"
)

// Config holds the runtime configuration.
type Config struct {
	Path   string
	Logger *logging.Logger

	Prefix  string
	Region  string
	Profile string
	Backend string

	Definition *Definition

	// Store overrides backend construction, for tests.
	Store store.KeyValueStore
}

// Definition is the ssmpass.yaml structure. Endpoint and the static
// credentials exist for LocalStack-style testing only.
type Definition struct {
	Prefix  string `yaml:"prefix"`
	Region  string `yaml:"region"`
	Profile string `yaml:"profile"`
	Backend string `yaml:"backend"`

	Endpoint        string `yaml:"endpoint,omitempty"`
	AccessKeyID     string `yaml:"access_key_id,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty"`
}

// Load reads the config file if present and fills any setting not already
// supplied by a flag, falling back to environment variables and defaults.
// A missing config file is not an error; a malformed one is.
func (c *Config) Load() error {
	path := c.Path
	if path == "" {
		path = DefaultPath
	}

	def := &Definition{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, def); err != nil {
			return &sperrors.Error{
				Kind:       sperrors.KindValidation,
				Message:    fmt.Sprintf("Invalid config file '%s'", path),
				Suggestion: "Check the YAML for indentation errors and missing quotes",
				Err:        err,
			}
		}
	case os.IsNotExist(err):
		// Optional file; flags, environment and defaults still apply.
	default:
		return &sperrors.Error{
			Kind:       sperrors.KindValidation,
			Message:    fmt.Sprintf("Failed to read config file '%s'", path),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}
	c.Definition = def

	c.Prefix = firstOf(c.Prefix, def.Prefix, os.Getenv(EnvPrefix), DefaultPrefix)
	c.Region = firstOf(c.Region, def.Region, os.Getenv(EnvRegion))
	c.Profile = firstOf(c.Profile, def.Profile, os.Getenv(EnvProfile))
	c.Backend = firstOf(c.Backend, def.Backend, os.Getenv(EnvBackend), BackendSSM)

	if c.Backend != BackendSSM && c.Backend != BackendSecretsManager {
		return &sperrors.Error{
			Kind:       sperrors.KindValidation,
			Message:    fmt.Sprintf("Unknown backend '%s'", c.Backend),
			Suggestion: fmt.Sprintf("Use '%s' or '%s'", BackendSSM, BackendSecretsManager),
		}
	}

	if c.Logger == nil {
		c.Logger = logging.New(false, false)
	}

	return nil
}

// firstOf returns the first non-empty value.
func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
