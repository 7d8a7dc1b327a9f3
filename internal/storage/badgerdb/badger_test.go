package badgerdb

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/bookmarks/internal/models"
	"github.com/mmynk/bookmarks/internal/storage"
	"github.com/mmynk/bookmarks/internal/storage/storagetest"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) storage.Store {
	t.Helper()

	store, err := New(t.TempDir(), testLogger())
	require.NoError(t, err, "Failed to create test BadgerDB store")
	return store
}

func TestBadgerStore(t *testing.T) {
	storagetest.Run(t, newTestStore)
}

func TestBadgerStore_IDsSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := New(dir, testLogger())
	require.NoError(t, err)

	account := models.NewAccount("miguel", "secret")
	require.NoError(t, store.CreateAccount(ctx, account))
	first := models.NewBookmark(account, "http://x/1", "d")
	require.NoError(t, store.CreateBookmark(ctx, first))
	require.NoError(t, store.Close())

	store, err = New(dir, testLogger())
	require.NoError(t, err)
	defer store.Close()

	got, err := store.FindAccountByUsername(ctx, "miguel")
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)

	second := models.NewBookmark(got, "http://x/2", "d")
	require.NoError(t, store.CreateBookmark(ctx, second))
	assert.Greater(t, second.ID, first.ID, "sequence must not hand out an ID twice")

	bookmarks, err := store.ListBookmarksByOwner(ctx, got.ID)
	require.NoError(t, err)
	assert.Len(t, bookmarks, 2)
}

func TestOwnerKeysSortByID(t *testing.T) {
	// Zero padding keeps lexical order equal to numeric order.
	assert.Less(t, string(ownerKey(1, 9)), string(ownerKey(1, 10)))
	assert.Less(t, string(bookmarkKey(99)), string(bookmarkKey(100)))
}
