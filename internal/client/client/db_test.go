package client

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestInitStateStore_CreatesTables(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "adminctl", "state.db")

	repos, err := InitStateStore(ctx, path)
	require.NoError(t, err)
	defer repos.Close()

	require.True(t, tableExists(t, repos.DB, "goose_db_version"))
	require.True(t, tableExists(t, repos.DB, "state"))
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	repos, err := InitStateStore(ctx, path)
	require.NoError(t, err)
	defer repos.Close()

	require.NoError(t, RunMigrations(ctx, repos.DB))
	require.True(t, tableExists(t, repos.DB, "state"))
}

func TestInitStateStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	repos, err := InitStateStore(ctx, path)
	require.NoError(t, err)
	require.NoError(t, repos.Metadata.Set(ctx, "accessToken", "A1"))
	require.NoError(t, repos.Close())

	reopened, err := InitStateStore(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Metadata.Get(ctx, "accessToken")
	require.NoError(t, err)
	require.Equal(t, "A1", got)
}

func TestInitStateStore_InMemory(t *testing.T) {
	repos, err := InitStateStore(context.Background(), ":memory:")
	require.NoError(t, err)
	defer repos.Close()

	require.True(t, tableExists(t, repos.DB, "state"))
}
