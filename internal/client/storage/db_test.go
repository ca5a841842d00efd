package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpen_InMemoryCreatesSchema(t *testing.T) {
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='client_state'`).Scan(&name)
	require.NoError(t, err)
	require.Equal(t, "client_state", name)
}

func TestOpen_FileIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	db, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO client_state (key, value) VALUES ('token', 'abc')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var v string
	require.NoError(t, db.QueryRow(`SELECT value FROM client_state WHERE key='token'`).Scan(&v))
	require.Equal(t, "abc", v)
}

func TestOpen_BadPath(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "state.db"))
	require.Error(t, err)
}
