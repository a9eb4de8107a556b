package client

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avasilenko/snapdiary/internal/client/models"

	_ "modernc.org/sqlite"
)

func TestInitDatabase_CreatesSchemaAndWiresRepos(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "diary.db")
	ctx := context.Background()

	repos, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.DB.Close() })

	e := &models.DiaryEntry{ID: "e1", Mood: models.MoodHappy, Caption: "hi"}
	require.NoError(t, repos.Entries.Save(ctx, e))

	id, err := repos.Pending.Add(ctx, models.NewDeleteAction("e1"))
	require.NoError(t, err)
	assert.Positive(t, id)

	require.NoError(t, repos.KV.Set(ctx, "k", []byte("v")))
	v, err := repos.KV.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "diary.db")
	ctx := context.Background()

	repos, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.DB.Close() })

	require.NoError(t, RunMigrations(ctx, repos.DB), "re-running migrations must be a no-op")
}
