package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sperrors "github.com/ssmpass/ssmpass/internal/errors"
)

func TestErrorFormatting(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("connection timeout")
	err := sperrors.Store("get password for login 'alice'", "alice", cause)

	msg := err.Error()
	assert.Contains(t, msg, "Failed to get password for login 'alice'")
	assert.Contains(t, msg, "connection timeout")
	assert.Contains(t, msg, "💡")
}

func TestStorePreservesCause(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("throttled")
	err := sperrors.Store("list logins", "", cause)

	assert.True(t, stderrors.Is(err, cause))
	assert.Equal(t, cause, stderrors.Unwrap(err))
}

func TestKindPredicates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		kind sperrors.Kind
	}{
		{"validation", sperrors.Validation("a/b", "bad login"), sperrors.KindValidation},
		{"not found", sperrors.NotFound("alice"), sperrors.KindNotFound},
		{"already exists", sperrors.AlreadyExists("alice"), sperrors.KindAlreadyExists},
		{"store", sperrors.Store("get", "alice", stderrors.New("boom")), sperrors.KindStore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, sperrors.KindOf(tt.err))
		})
	}

	assert.Equal(t, sperrors.Kind(0), sperrors.KindOf(stderrors.New("plain")))
	assert.Equal(t, sperrors.Kind(0), sperrors.KindOf(nil))
}

func TestKindPredicatesThroughWrapping(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("running command: %w", sperrors.NotFound("bob"))
	assert.True(t, sperrors.IsNotFound(wrapped))
	assert.False(t, sperrors.IsAlreadyExists(wrapped))
}

func TestExitCodes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, sperrors.ExitOK, sperrors.ExitCode(nil))
	assert.Equal(t, sperrors.ExitValidation, sperrors.ExitCode(sperrors.Validation("", "empty")))
	assert.Equal(t, sperrors.ExitNotFound, sperrors.ExitCode(sperrors.NotFound("alice")))
	assert.Equal(t, sperrors.ExitAlreadyExists, sperrors.ExitCode(sperrors.AlreadyExists("alice")))
	assert.Equal(t, sperrors.ExitStore, sperrors.ExitCode(sperrors.Store("get", "", stderrors.New("boom"))))
	assert.Equal(t, sperrors.ExitUnclassified, sperrors.ExitCode(stderrors.New("plain")))

	// Exit codes must stay pairwise distinct; scripts branch on them.
	codes := map[int]bool{}
	for _, code := range []int{
		sperrors.ExitOK, sperrors.ExitUnclassified, sperrors.ExitValidation,
		sperrors.ExitNotFound, sperrors.ExitAlreadyExists, sperrors.ExitStore,
	} {
		require.False(t, codes[code], "duplicate exit code %d", code)
		codes[code] = true
	}
}

func TestStoreSuggestions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cause   string
		wantHas string
	}{
		{"access denied", "AccessDeniedException: not authorized", "IAM permissions"},
		{"throttling", "ThrottlingException: rate exceeded", "throttled"},
		{"credentials", "failed to retrieve credentials", "aws configure"},
		{"generic", "something odd", "Check AWS credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sperrors.Store("get", "", stderrors.New(tt.cause))
			assert.Contains(t, err.Error(), tt.wantHas)
		})
	}
}
