package preferences

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/shelf/internal/ports"
)

func TestFileStoreRoundTripAcrossInstances(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "preferences.yaml")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	_, err = store.Load(context.Background(), "theme")
	assert.True(t, errors.Is(err, ports.ErrPreferenceNotFound))

	require.NoError(t, store.Save(context.Background(), "theme", "dark"))
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file is renamed away")

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	got, err := reopened.Load(context.Background(), "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", got)
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "preferences.yaml")
	require.NoError(t, os.WriteFile(path, []byte("values: [unterminated"), 0o644))

	_, err := NewFileStore(path)
	assert.Error(t, err)
}

func TestFileStoreRollsBackOnWriteFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "preferences.yaml")
	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), "theme", "light"))

	// A directory squatting on the temporary path makes the write fail.
	require.NoError(t, os.Mkdir(path+".tmp", 0o755))

	err = store.Save(context.Background(), "theme", "dark")
	require.Error(t, err)

	got, err := store.Load(context.Background(), "theme")
	require.NoError(t, err)
	assert.Equal(t, "light", got)
}

func TestFileStoreHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(filepath.Join(t.TempDir(), "p.yaml"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, store.Save(ctx, "theme", "dark"))
	_, err = store.Load(ctx, "theme")
	assert.Error(t, err)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	t.Parallel()

	srv := miniredis.RunT(t)
	store, err := NewRedisStore(context.Background(), RedisOptions{Addr: srv.Addr(), KeyPrefix: "shelf:pref:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.Load(context.Background(), "theme")
	assert.True(t, errors.Is(err, ports.ErrPreferenceNotFound))

	require.NoError(t, store.Save(context.Background(), "theme", "dark"))
	got, err := store.Load(context.Background(), "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", got)

	raw, err := srv.Get("shelf:pref:theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", raw)
}

func TestRedisStoreSurfacesServerErrors(t *testing.T) {
	t.Parallel()

	srv := miniredis.RunT(t)
	store, err := NewRedisStore(context.Background(), RedisOptions{Addr: srv.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	srv.SetError("LOADING redis is loading the dataset")
	err = store.Save(context.Background(), "theme", "dark")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ports.ErrPreferenceNotFound))
}

func TestNewRedisStoreFailsWhenUnreachable(t *testing.T) {
	t.Parallel()

	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	_, err := NewRedisStore(context.Background(), RedisOptions{Addr: addr})
	assert.Error(t, err)
}
