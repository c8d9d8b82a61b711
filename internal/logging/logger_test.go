package logging_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ssmpass/ssmpass/internal/logging"
)

func TestSecretAlwaysRedacts(t *testing.T) {
	t.Parallel()

	secret := logging.Secret("hunter2-hunter2")

	assert.Equal(t, "[REDACTED]", secret.String())
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%s", secret))
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", secret))
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%#v", secret))
	assert.NotContains(t, fmt.Sprintf("value: %s", secret), "hunter2")
}

func TestRedact(t *testing.T) {
	t.Parallel()

	out := logging.Redact("password is hunter2-hunter2 ok", []string{"hunter2-hunter2"})
	assert.Equal(t, "password is [REDACTED] ok", out)

	// Trivially short secrets are left alone to avoid mangling text.
	out = logging.Redact("a or b", []string{"a"})
	assert.Equal(t, "a or b", out)
}

func TestLoggerLevels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logging.NewWithWriter(&buf, false, true)

	log.Info("created login %s", "alice")
	log.Warn("slow response")
	log.Error("request failed")
	log.Debug("should not appear")

	out := buf.String()
	assert.Contains(t, out, "✓ created login alice")
	assert.Contains(t, out, "⚠ slow response")
	assert.Contains(t, out, "✗ request failed")
	assert.NotContains(t, out, "should not appear")
}

func TestLoggerDebugEnabled(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logging.NewWithWriter(&buf, true, true)

	log.Debug("fetching %s", "key")
	assert.Contains(t, buf.String(), "[DEBUG] fetching key")
}

func TestLoggerSecretInterpolation(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logging.NewWithWriter(&buf, true, true)

	log.Debug("storing password %s", logging.Secret("hunter2-hunter2"))
	assert.NotContains(t, buf.String(), "hunter2")
	assert.Contains(t, buf.String(), "[REDACTED]")
}
