package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/bookmarks/internal/models"
	"github.com/mmynk/bookmarks/internal/storage"
	"github.com/mmynk/bookmarks/internal/storage/storagetest"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "Failed to create store")
	return store
}

func TestSQLiteStore(t *testing.T) {
	storagetest.Run(t, newTestStore)
}

func TestNewCreatesParentDirectories(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "bookmarks.db")

	store, err := New(dbPath)
	require.NoError(t, err)
	defer store.Close()

	assert.FileExists(t, dbPath)
}

func TestDataSurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	store, err := New(dbPath)
	require.NoError(t, err)

	account := models.NewAccount("miguel", "secret")
	require.NoError(t, store.CreateAccount(ctx, account))
	require.NoError(t, store.CreateBookmark(ctx, models.NewBookmark(account, "http://x/1", "d")))
	require.NoError(t, store.Close())

	// Migrations must be idempotent on an existing schema.
	store, err = New(dbPath)
	require.NoError(t, err)
	defer store.Close()

	bookmarks, err := store.ListBookmarksByOwnerUsername(ctx, "miguel")
	require.NoError(t, err)
	require.Len(t, bookmarks, 1)
	assert.Equal(t, "http://x/1", bookmarks[0].URI)
}

func TestForeignKeysEnforced(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "fk.db"))
	require.NoError(t, err)
	defer store.Close()

	// Bypass the store's own owner check to hit the schema constraint.
	_, err = store.db.ExecContext(context.Background(),
		"INSERT INTO bookmarks (account_id, uri, description, created_at) VALUES (?, ?, ?, ?)",
		99, "http://x", "d", 0,
	)
	require.Error(t, err)
	assert.True(t, isConstraintErr(err), "expected constraint error, got %v", err)
}
