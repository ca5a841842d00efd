package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openKV(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE kv (key TEXT PRIMARY KEY, value BLOB NOT NULL)`)
	require.NoError(t, err)
	return db
}

func keys(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query(`SELECT key FROM kv ORDER BY key`)
	require.NoError(t, err)
	defer rows.Close()
	var out []string
	for rows.Next() {
		var k string
		require.NoError(t, rows.Scan(&k))
		out = append(out, k)
	}
	require.NoError(t, rows.Err())
	return out
}

func putBoth(ctx context.Context, tx DBTX) error {
	if _, err := tx.ExecContext(ctx, `INSERT INTO kv(key, value) VALUES ('token', 'abc')`); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `INSERT INTO kv(key, value) VALUES ('user', '{}')`)
	return err
}

func TestWithTx_CommitsBothWrites(t *testing.T) {
	db := openKV(t)
	require.NoError(t, WithTx(context.Background(), db, nil, putBoth))
	assert.Equal(t, []string{"token", "user"}, keys(t, db))
}

func TestWithTx_ErrorRollsBackEarlierWrites(t *testing.T) {
	db := openKV(t)
	boom := errors.New("boom")

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, e := tx.ExecContext(ctx, `INSERT INTO kv(key, value) VALUES ('token', 'abc')`)
		require.NoError(t, e)
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Empty(t, keys(t, db))
}

func TestWithTx_ConstraintFailureRollsBack(t *testing.T) {
	db := openKV(t)
	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		if _, e := tx.ExecContext(ctx, `INSERT INTO kv(key, value) VALUES ('token', 'abc')`); e != nil {
			return e
		}
		_, e := tx.ExecContext(ctx, `INSERT INTO kv(key, value) VALUES ('token', 'dup')`)
		return e
	})
	require.Error(t, err)
	assert.Empty(t, keys(t, db))
}

func TestWithTx_PanicRollsBackAndPropagates(t *testing.T) {
	db := openKV(t)

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
			_, e := tx.ExecContext(ctx, `INSERT INTO kv(key, value) VALUES ('token', 'abc')`)
			require.NoError(t, e)
			panic("kaboom")
		})
	})
	assert.Empty(t, keys(t, db))
}

type failingBeginner struct{ err error }

func (f failingBeginner) BeginTx(context.Context, *sql.TxOptions) (*sql.Tx, error) {
	return nil, f.err
}

func TestWithTx_BeginFailure(t *testing.T) {
	closed := errors.New("database is closed")
	called := false
	err := WithTx(context.Background(), failingBeginner{err: closed}, nil, func(context.Context, DBTX) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, closed)
	assert.Contains(t, err.Error(), "begin tx")
	assert.False(t, called)
}
