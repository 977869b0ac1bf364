package store

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStores(t *testing.T) map[string]KV {
	t.Helper()
	sq, err := OpenSQLite(filepath.Join(t.TempDir(), "db", "session.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { sq.Close() })
	return map[string]KV{
		"memory": NewMemoryStore(),
		"sqlite": sq,
	}
}

func TestKV_Contract(t *testing.T) {
	ctx := context.Background()
	for name, kv := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := kv.Get(ctx, KeyAccessToken)
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, kv.Set(ctx, KeyAccessToken, "a1"))
			require.NoError(t, kv.Set(ctx, KeyRefreshToken, "r1"))
			require.NoError(t, kv.Set(ctx, KeyAccessToken, "a2"))

			v, err := kv.Get(ctx, KeyAccessToken)
			require.NoError(t, err)
			assert.Equal(t, "a2", v)

			keys, err := kv.Keys(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{KeyAccessToken, KeyRefreshToken}, keys)

			require.NoError(t, kv.Delete(ctx, KeyAccessToken, KeyRefreshToken, "never-set"))
			_, err = kv.Get(ctx, KeyRefreshToken)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	s1, err := OpenSQLite(path, nil)
	require.NoError(t, err)
	require.NoError(t, s1.Set(ctx, KeyRefreshToken, "refresh-xyz"))
	require.NoError(t, s1.Close())

	s2, err := OpenSQLite(path, nil)
	require.NoError(t, err)
	defer s2.Close()

	v, err := s2.Get(ctx, KeyRefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "refresh-xyz", v)
	assert.Equal(t, path, s2.Path())
}

func TestSQLiteStore_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	path := filepath.Join(t.TempDir(), "session.db")
	s, err := OpenSQLite(path, nil)
	require.NoError(t, err)
	defer s.Close()

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
