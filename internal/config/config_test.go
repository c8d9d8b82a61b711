package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssmpass/ssmpass/internal/config"
	sperrors "github.com/ssmpass/ssmpass/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ssmpass.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg := &config.Config{Path: filepath.Join(t.TempDir(), "absent.yaml")}
	require.NoError(t, cfg.Load())

	assert.Equal(t, config.DefaultPrefix, cfg.Prefix)
	assert.Equal(t, config.BackendSSM, cfg.Backend)
	assert.Empty(t, cfg.Region)
	assert.NotNil(t, cfg.Logger)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
prefix: /staging/passwords/
region: eu-west-1
profile: staging
backend: secretsmanager
`)

	cfg := &config.Config{Path: path}
	require.NoError(t, cfg.Load())

	assert.Equal(t, "/staging/passwords/", cfg.Prefix)
	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, "staging", cfg.Profile)
	assert.Equal(t, config.BackendSecretsManager, cfg.Backend)
}

func TestFlagsTakePrecedenceOverFile(t *testing.T) {
	path := writeConfig(t, `
prefix: /from-file/
region: eu-west-1
`)

	cfg := &config.Config{
		Path:   path,
		Prefix: "/from-flag/",
	}
	require.NoError(t, cfg.Load())

	assert.Equal(t, "/from-flag/", cfg.Prefix)
	assert.Equal(t, "eu-west-1", cfg.Region)
}

func TestEnvironmentFillsGaps(t *testing.T) {
	t.Setenv(config.EnvPrefix, "/from-env/")
	t.Setenv(config.EnvRegion, "us-west-2")

	cfg := &config.Config{Path: filepath.Join(t.TempDir(), "absent.yaml")}
	require.NoError(t, cfg.Load())

	assert.Equal(t, "/from-env/", cfg.Prefix)
	assert.Equal(t, "us-west-2", cfg.Region)
}

func TestFileTakesPrecedenceOverEnvironment(t *testing.T) {
	t.Setenv(config.EnvPrefix, "/from-env/")

	path := writeConfig(t, "prefix: /from-file/\n")
	cfg := &config.Config{Path: path}
	require.NoError(t, cfg.Load())

	assert.Equal(t, "/from-file/", cfg.Prefix)
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfig(t, "prefix: [unclosed\n")

	cfg := &config.Config{Path: path}
	err := cfg.Load()
	require.Error(t, err)
	assert.True(t, sperrors.IsValidation(err), "got %v", err)
}

func TestLoadUnknownBackend(t *testing.T) {
	cfg := &config.Config{
		Path:    filepath.Join(t.TempDir(), "absent.yaml"),
		Backend: "etcd",
	}
	err := cfg.Load()
	require.Error(t, err)
	assert.True(t, sperrors.IsValidation(err), "got %v", err)
	assert.Contains(t, err.Error(), "etcd")
}

func TestLoadEndpointForTesting(t *testing.T) {
	path := writeConfig(t, `
endpoint: http://localhost:4566
access_key_id: test
secret_access_key: test
`)

	cfg := &config.Config{Path: path}
	require.NoError(t, cfg.Load())

	require.NotNil(t, cfg.Definition)
	assert.Equal(t, "http://localhost:4566", cfg.Definition.Endpoint)
	assert.Equal(t, "test", cfg.Definition.AccessKeyID)
}
