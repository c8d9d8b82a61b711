package manager_test

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sperrors "github.com/ssmpass/ssmpass/internal/errors"
	"github.com/ssmpass/ssmpass/internal/manager"
	"github.com/ssmpass/ssmpass/pkg/password"
	"github.com/ssmpass/ssmpass/tests/fakes"
)

func newTestManager(t *testing.T) (*manager.Manager, *fakes.FakeStore) {
	t.Helper()
	kv := fakes.NewFakeStore()
	return manager.New(kv), kv
}

func TestCreateGeneratesPasswordAndGetReturnsIt(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mgr, _ := newTestManager(t)

	created, err := mgr.Create(ctx, "alice", "")
	require.NoError(t, err)
	assert.Len(t, created, password.DefaultLength)
	assert.True(t, password.MeetsPolicy(created))

	got, err := mgr.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestCreateWithSuppliedPassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mgr, kv := newTestManager(t)

	created, err := mgr.Create(ctx, "bob", "Secret123!")
	require.NoError(t, err)
	assert.Equal(t, "Secret123!", created)

	entry, ok := kv.Entry("/passwords/bob")
	require.True(t, ok)
	assert.Equal(t, "Secret123!", entry.Value)
	assert.Equal(t, "Password for login: bob", entry.Description)
	assert.Equal(t, map[string]string{"Type": "Password", "Login": "bob"}, entry.Tags)
}

func TestCreateExistingLoginFailsAndLeavesRecordUntouched(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mgr, kv := newTestManager(t)

	original, err := mgr.Create(ctx, "alice", "")
	require.NoError(t, err)

	_, err = mgr.Create(ctx, "alice", "other-password")
	assert.True(t, sperrors.IsAlreadyExists(err), "got %v", err)

	entry, ok := kv.Entry("/passwords/alice")
	require.True(t, ok)
	assert.Equal(t, original, entry.Value)
}

func TestConcurrentCreatesPickExactlyOneWinner(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mgr, _ := newTestManager(t)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = mgr.Create(ctx, "shared", "")
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range results {
		if err == nil {
			wins++
		} else {
			assert.True(t, sperrors.IsAlreadyExists(err), "got %v", err)
		}
	}
	assert.Equal(t, 1, wins)
}

func TestUpdateOverwritesExistingLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mgr, _ := newTestManager(t)

	_, err := mgr.Create(ctx, "bob", "Secret123!")
	require.NoError(t, err)

	require.NoError(t, mgr.Update(ctx, "bob", "NewSecret456!"))

	got, err := mgr.Get(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "NewSecret456!", got)

	// Retrying the same update yields the same end state.
	require.NoError(t, mgr.Update(ctx, "bob", "NewSecret456!"))
	got, err = mgr.Get(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "NewSecret456!", got)
}

func TestUpdateAbsentLoginFailsNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mgr, _ := newTestManager(t)

	err := mgr.Update(ctx, "ghost", "irrelevant")
	assert.True(t, sperrors.IsNotFound(err), "got %v", err)
}

func TestUpdateEmptyPasswordFailsValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mgr, kv := newTestManager(t)

	err := mgr.Update(ctx, "bob", "")
	assert.True(t, sperrors.IsValidation(err), "got %v", err)
	assert.Zero(t, kv.OpCount())
}

func TestRotateReturnsFreshPasswordOfRequestedLength(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mgr, _ := newTestManager(t)

	_, err := mgr.Create(ctx, "alice", "")
	require.NoError(t, err)

	rotated, err := mgr.Rotate(ctx, "alice", 24)
	require.NoError(t, err)
	assert.Len(t, rotated, 24)
	assert.True(t, password.MeetsPolicy(rotated))

	got, err := mgr.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, rotated, got)
}

func TestRotateDefaultsLength(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mgr, _ := newTestManager(t)

	_, err := mgr.Create(ctx, "alice", "Secret123!")
	require.NoError(t, err)

	rotated, err := mgr.Rotate(ctx, "alice", 0)
	require.NoError(t, err)
	assert.Len(t, rotated, password.DefaultLength)
}

func TestRotateAbsentLoginFailsNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mgr, _ := newTestManager(t)

	_, err := mgr.Rotate(ctx, "ghost", 0)
	assert.True(t, sperrors.IsNotFound(err), "got %v", err)
}

func TestRotateShortLengthFailsValidationWithoutStoreCalls(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mgr, kv := newTestManager(t)

	_, err := mgr.Rotate(ctx, "alice", password.MinLength-1)
	assert.True(t, sperrors.IsValidation(err), "got %v", err)
	assert.Zero(t, kv.OpCount())
}

func TestDeleteThenReadsBehaveAsAbsent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mgr, _ := newTestManager(t)

	_, err := mgr.Create(ctx, "bob", "Secret123!")
	require.NoError(t, err)

	require.NoError(t, mgr.Delete(ctx, "bob"))

	_, err = mgr.Get(ctx, "bob")
	assert.True(t, sperrors.IsNotFound(err), "got %v", err)

	ok, err := mgr.Exists(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteAbsentLoginFailsNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mgr, _ := newTestManager(t)

	err := mgr.Delete(ctx, "ghost")
	assert.True(t, sperrors.IsNotFound(err), "got %v", err)
}

func TestExists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mgr, _ := newTestManager(t)

	ok, err := mgr.Exists(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = mgr.Create(ctx, "alice", "")
	require.NoError(t, err)

	ok, err = mgr.Exists(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestListReturnsExactlyTheLiveLogins(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mgr, _ := newTestManager(t)

	for _, login := range []string{"charlie", "alice", "bob"} {
		_, err := mgr.Create(ctx, login, "")
		require.NoError(t, err)
	}
	require.NoError(t, mgr.Delete(ctx, "bob"))

	logins, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "charlie"}, logins)
}

func TestPrefixesAreDisjointNamespaces(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	kv := fakes.NewFakeStore()
	prod := manager.New(kv, manager.WithPrefix("/prod/passwords/"))
	staging := manager.New(kv, manager.WithPrefix("/staging/passwords/"))

	_, err := prod.Create(ctx, "alice", "prod-secret")
	require.NoError(t, err)
	_, err = staging.Create(ctx, "alice", "staging-secret")
	require.NoError(t, err)

	prodValue, err := prod.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "prod-secret", prodValue)

	stagingLogins, err := staging.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, stagingLogins)
}

func TestKeyMapping(t *testing.T) {
	t.Parallel()
	mgr := manager.New(fakes.NewFakeStore())
	assert.Equal(t, "/passwords/alice", mgr.Key("alice"))

	custom := manager.New(fakes.NewFakeStore(), manager.WithPrefix("/team/"))
	assert.Equal(t, "/team/alice", custom.Key("alice"))
}

func TestInfoExposesMetadataButNeverThePassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mgr, _ := newTestManager(t)

	_, err := mgr.Create(ctx, "alice", "Secret123!")
	require.NoError(t, err)

	info, err := mgr.Info(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", info.Login)
	assert.Equal(t, "/passwords/alice", info.Key)
	assert.Equal(t, "Password for login: alice", info.Description)
	assert.Equal(t, map[string]string{"Type": "Password", "Login": "alice"}, info.Tags)
	assert.False(t, info.LastModified.IsZero())

	_, err = mgr.Info(ctx, "ghost")
	assert.True(t, sperrors.IsNotFound(err), "got %v", err)
}

func TestInvalidLoginsFailEveryOperationWithoutStoreCalls(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for _, login := range []string{"", "a/b", "..", "has space"} {
		mgr, kv := newTestManager(t)

		_, err := mgr.Create(ctx, login, "")
		assert.True(t, sperrors.IsValidation(err), "create %q: %v", login, err)
		_, err = mgr.Get(ctx, login)
		assert.True(t, sperrors.IsValidation(err), "get %q: %v", login, err)
		err = mgr.Update(ctx, login, "pw")
		assert.True(t, sperrors.IsValidation(err), "update %q: %v", login, err)
		_, err = mgr.Rotate(ctx, login, 0)
		assert.True(t, sperrors.IsValidation(err), "rotate %q: %v", login, err)
		_, err = mgr.Exists(ctx, login)
		assert.True(t, sperrors.IsValidation(err), "exists %q: %v", login, err)
		_, err = mgr.Info(ctx, login)
		assert.True(t, sperrors.IsValidation(err), "info %q: %v", login, err)
		err = mgr.Delete(ctx, login)
		assert.True(t, sperrors.IsValidation(err), "delete %q: %v", login, err)

		assert.Zero(t, kv.OpCount(), "login %q caused store calls", login)
	}
}

func TestBackendFaultsClassifyAsStoreErrorsWithCause(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mgr, kv := newTestManager(t)

	cause := stderrors.New("ThrottlingException: rate exceeded")
	kv.ForcedErrors["/passwords/alice"] = cause

	_, err := mgr.Get(ctx, "alice")
	assert.True(t, sperrors.IsStore(err), "got %v", err)
	assert.True(t, stderrors.Is(err, cause))
}
