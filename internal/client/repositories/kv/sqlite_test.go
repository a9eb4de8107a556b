package kv

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE kv (key TEXT PRIMARY KEY, value BLOB NOT NULL);`)
	require.NoError(t, err)

	return db
}

func TestGet_AbsentKeyReturnsNil(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	v, err := r.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSet_Overwrites(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, KeyLastSyncAt, []byte("2024-01-01")))
	require.NoError(t, r.Set(ctx, KeyLastSyncAt, []byte("2024-02-02")))

	v, err := r.Get(ctx, KeyLastSyncAt)
	require.NoError(t, err)
	assert.Equal(t, []byte("2024-02-02"), v)
}

func TestDelete_LeavesOtherKeys(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, KeyAuthSalt, []byte("s")))
	require.NoError(t, r.Set(ctx, KeyAuthVerifier, []byte("v")))

	require.NoError(t, r.Delete(ctx, KeyAuthSalt))
	require.NoError(t, r.Delete(ctx, KeyAuthSalt), "deleting an absent key is fine")

	v, err := r.Get(ctx, KeyAuthSalt)
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = r.Get(ctx, KeyAuthVerifier)
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
}
