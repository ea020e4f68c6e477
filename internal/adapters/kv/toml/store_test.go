package toml

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bnema/coach-cli/internal/domain"
	"github.com/bnema/coach-cli/internal/ports"
	"github.com/gofrs/flock"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, statePath string) *Store {
	t.Helper()

	config := viper.New()
	config.Set(StatePathKey, statePath)

	store, err := NewStore(config)
	require.NoError(t, err)
	return store
}

func TestStoreApplyRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, filepath.Join(t.TempDir(), "state.toml"))
	ctx := context.Background()

	require.NoError(t, store.Apply(ctx, ports.Batch{Set: map[string]string{
		"sessions":         `[{"user_id":"u1"}]`,
		"chatHistory_u1":   "[]",
		"multiline\nvalue": "line one\nline \"two\"",
	}}))

	got, err := store.Get(ctx, "sessions")
	require.NoError(t, err)
	assert.Equal(t, `[{"user_id":"u1"}]`, got)

	got, err = store.Get(ctx, "multiline\nvalue")
	require.NoError(t, err)
	assert.Equal(t, "line one\nline \"two\"", got)
}

func TestStoreApplyDeletesAndSetsTogether(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, filepath.Join(t.TempDir(), "state.toml"))
	ctx := context.Background()

	require.NoError(t, store.Apply(ctx, ports.Batch{Set: map[string]string{"a": "1", "b": "2"}}))
	require.NoError(t, store.Apply(ctx, ports.Batch{
		Set:    map[string]string{"c": "3"},
		Delete: []string{"a"},
	}))

	_, err := store.Get(ctx, "a")
	assert.True(t, errors.Is(err, domain.ErrKeyNotFound))

	got, err := store.Get(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "3", got)
}

func TestStoreMissingFileBehaviors(t *testing.T) {
	t.Parallel()

	statePath := filepath.Join(t.TempDir(), "missing", "state.toml")
	store := newTestStore(t, statePath)

	_, err := store.Get(context.Background(), "sessions")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrKeyNotFound))

	require.NoError(t, store.Apply(context.Background(), ports.Batch{}))
	_, err = os.Stat(statePath)
	assert.True(t, errors.Is(err, os.ErrNotExist), "an empty batch must not create the state file")
}

func TestStoreApplyCreatesDirectoryAndEnforcesPermissions(t *testing.T) {
	t.Parallel()

	statePath := filepath.Join(t.TempDir(), "nested", "state.toml")
	store := newTestStore(t, statePath)
	assert.Equal(t, statePath, store.Path())

	require.NoError(t, store.Apply(context.Background(), ports.Batch{Set: map[string]string{"k": "v"}}))

	info, err := os.Stat(statePath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(stateFileMode), info.Mode().Perm())

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(statePath), ".state-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestStoreSerializedTOMLIncludesVersion(t *testing.T) {
	t.Parallel()

	statePath := filepath.Join(t.TempDir(), "state.toml")
	store := newTestStore(t, statePath)

	require.NoError(t, store.Apply(context.Background(), ports.Batch{Set: map[string]string{"activeSession": "u1"}}))

	data, err := os.ReadFile(statePath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 1")
	assert.Contains(t, string(data), "activeSession")
}

func TestStoreMalformedTOMLReturnsError(t *testing.T) {
	t.Parallel()

	statePath := filepath.Join(t.TempDir(), "state.toml")
	require.NoError(t, os.WriteFile(statePath, []byte("version = [\n"), 0o600))
	store := newTestStore(t, statePath)

	_, err := store.Get(context.Background(), "sessions")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode state file")

	err = store.Apply(context.Background(), ports.Batch{Set: map[string]string{"k": "v"}})
	require.Error(t, err)
}

func TestStoreFutureSchemaVersionReturnsError(t *testing.T) {
	t.Parallel()

	statePath := filepath.Join(t.TempDir(), "state.toml")
	require.NoError(t, os.WriteFile(statePath, []byte(strings.Join([]string{
		"version = 99",
		"",
		"[[entries]]",
		"key = \"sessions\"",
		"value = \"[]\"",
	}, "\n")), 0o600))
	store := newTestStore(t, statePath)

	_, err := store.Get(context.Background(), "sessions")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported state schema version")
}

func TestStoreCanceledContextReturnsContextError(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, filepath.Join(t.TempDir(), "state.toml"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Apply(ctx, ports.Batch{Set: map[string]string{"k": "v"}})
	require.ErrorIs(t, err, context.Canceled)

	_, err = store.Get(ctx, "k")
	require.ErrorIs(t, err, context.Canceled)
}

func TestStoreConcurrentBatchesAcrossInstancesPreserveAllKeys(t *testing.T) {
	t.Parallel()

	statePath := filepath.Join(t.TempDir(), "state.toml")
	storeA := newTestStore(t, statePath)
	storeB := newTestStore(t, statePath)

	const perStoreWrites = 50
	start := make(chan struct{})
	errCh := make(chan error, perStoreWrites*2)
	var wg sync.WaitGroup
	wg.Add(2)

	write := func(store *Store, prefix string) {
		defer wg.Done()
		<-start
		for i := 0; i < perStoreWrites; i++ {
			errCh <- store.Apply(context.Background(), ports.Batch{Set: map[string]string{prefix + strconv.Itoa(i): "v"}})
		}
	}

	go write(storeA, "a-")
	go write(storeB, "b-")

	close(start)
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	for i := 0; i < perStoreWrites; i++ {
		_, err := storeA.Get(context.Background(), "b-"+strconv.Itoa(i))
		require.NoError(t, err)
		_, err = storeB.Get(context.Background(), "a-"+strconv.Itoa(i))
		require.NoError(t, err)
	}
}

func TestStoreApplyWaitsForLockHeldByAnotherWriter(t *testing.T) {
	t.Parallel()

	statePath := filepath.Join(t.TempDir(), "state.toml")
	store := newTestStore(t, statePath)
	require.NoError(t, store.Apply(context.Background(), ports.Batch{Set: map[string]string{"k": "before"}}))

	other := flock.New(statePath + lockFileSuffix)
	locked, err := other.TryLock()
	require.NoError(t, err)
	require.True(t, locked)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err = store.Apply(ctx, ports.Batch{Set: map[string]string{"k": "blocked"}})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	value, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "before", value)

	released := make(chan error, 1)
	go func() {
		released <- store.Apply(context.Background(), ports.Batch{Set: map[string]string{"k": "after"}})
	}()
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, other.Unlock())
	require.NoError(t, <-released)

	value, err = store.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "after", value)
}
