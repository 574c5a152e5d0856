package kv

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := OpenSQLite(filepath.Join(t.TempDir(), "tandem.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sq.Close() })
	return map[string]Store{
		"sqlite": sq,
		"memory": NewMemoryStore(),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get("collection/notes")
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Put("collection/notes", []byte(`[{"id":"n1"}]`)))
			got, err := s.Get("collection/notes")
			require.NoError(t, err)
			require.JSONEq(t, `[{"id":"n1"}]`, string(got))

			// Overwrite replaces the whole blob.
			require.NoError(t, s.Put("collection/notes", []byte(`[]`)))
			got, err = s.Get("collection/notes")
			require.NoError(t, err)
			require.Equal(t, "[]", string(got))

			require.NoError(t, s.Delete("collection/notes"))
			_, err = s.Get("collection/notes")
			require.ErrorIs(t, err, ErrNotFound)

			// Deleting an absent key is a no-op.
			require.NoError(t, s.Delete("collection/notes"))
		})
	}
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tandem.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Put("queue/pending", []byte(`[{"op":"insert"}]`)))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	got, err := s.Get("queue/pending")
	require.NoError(t, err)
	require.JSONEq(t, `[{"op":"insert"}]`, string(got))
}
