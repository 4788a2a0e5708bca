package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"sqlite": openSQLite(t),
		"memory": NewMemoryStore(),
	}
}

func TestStore_SetGetOverwrite(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, s.Set(ctx, KeyAccounts, []byte(`[]`)))
			v, err := s.Get(ctx, KeyAccounts)
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(v))

			require.NoError(t, s.Set(ctx, KeyAccounts, []byte(`[{"id":"1"}]`)))
			v, err = s.Get(ctx, KeyAccounts)
			require.NoError(t, err)
			assert.Equal(t, `[{"id":"1"}]`, string(v))
		})
	}
}

func TestStore_MissingKey(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(context.Background(), "nope")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Set(ctx, KeyCurrentSession, []byte(`{}`)))

			require.NoError(t, s.Delete(ctx, KeyCurrentSession))
			require.NoError(t, s.Delete(ctx, KeyCurrentSession))

			_, err := s.Get(ctx, KeyCurrentSession)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestMemoryStore_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	in := []byte("a@x.com")
	require.NoError(t, s.Set(ctx, KeyRememberedEmail, in))
	in[0] = 'b'

	out, err := s.Get(ctx, KeyRememberedEmail)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", string(out))
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "store.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, KeyRememberedEmail, []byte("a@x.com")))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	v, err := s.Get(ctx, KeyRememberedEmail)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", string(v))
}
