// Package storagetest holds the behaviour every storage.Store backend must share.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/bookmarks/internal/models"
	"github.com/mmynk/bookmarks/internal/storage"
)

// Factory returns a fresh, empty store. The store is closed by the suite.
type Factory func(t *testing.T) storage.Store

// Run exercises a storage backend against the shared contract.
func Run(t *testing.T, newStore Factory) {
	t.Run("CreateAccount assigns ID", func(t *testing.T) {
		store := open(t, newStore)
		ctx := context.Background()

		account := models.NewAccount("alice", "secret")
		require.NoError(t, store.CreateAccount(ctx, account))
		assert.NotZero(t, account.ID, "expected account ID to be assigned")

		got, err := store.GetAccount(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Username)
		assert.Equal(t, "secret", got.Password)
		assert.Equal(t, account.CreatedAt, got.CreatedAt)
	})

	t.Run("CreateAccount rejects duplicate username", func(t *testing.T) {
		store := open(t, newStore)
		ctx := context.Background()

		require.NoError(t, store.CreateAccount(ctx, models.NewAccount("bob", "x")))
		err := store.CreateAccount(ctx, models.NewAccount("bob", "y"))
		assert.ErrorIs(t, err, storage.ErrConflict)
	})

	t.Run("FindAccountByUsername matches exactly", func(t *testing.T) {
		store := open(t, newStore)
		ctx := context.Background()

		account := models.NewAccount("Carol", "x")
		require.NoError(t, store.CreateAccount(ctx, account))

		got, err := store.FindAccountByUsername(ctx, "Carol")
		require.NoError(t, err)
		assert.Equal(t, account.ID, got.ID)

		_, err = store.FindAccountByUsername(ctx, "carol")
		assert.ErrorIs(t, err, storage.ErrNotFound, "lookup must not fold case")

		_, err = store.FindAccountByUsername(ctx, "Car%")
		assert.ErrorIs(t, err, storage.ErrNotFound, "lookup must not treat input as a pattern")
	})

	t.Run("GetAccount returns ErrNotFound", func(t *testing.T) {
		store := open(t, newStore)

		_, err := store.GetAccount(context.Background(), 424242)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("ListAccounts in ID order", func(t *testing.T) {
		store := open(t, newStore)
		ctx := context.Background()

		for _, name := range []string{"zed", "amy", "kim"} {
			require.NoError(t, store.CreateAccount(ctx, models.NewAccount(name, "x")))
		}

		accounts, err := store.ListAccounts(ctx)
		require.NoError(t, err)
		require.Len(t, accounts, 3)
		assert.Equal(t, []string{"zed", "amy", "kim"}, usernames(accounts))
	})

	t.Run("UpdateAccount renames", func(t *testing.T) {
		store := open(t, newStore)
		ctx := context.Background()

		account := models.NewAccount("dave", "x")
		require.NoError(t, store.CreateAccount(ctx, account))
		require.NoError(t, store.CreateAccount(ctx, models.NewAccount("erin", "x")))

		account.Username = "david"
		require.NoError(t, store.UpdateAccount(ctx, account))

		_, err := store.FindAccountByUsername(ctx, "dave")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		got, err := store.FindAccountByUsername(ctx, "david")
		require.NoError(t, err)
		assert.Equal(t, account.ID, got.ID)

		account.Username = "erin"
		assert.ErrorIs(t, store.UpdateAccount(ctx, account), storage.ErrConflict)

		missing := &models.Account{ID: 999, Username: "ghost"}
		assert.ErrorIs(t, store.UpdateAccount(ctx, missing), storage.ErrNotFound)
	})

	t.Run("DeleteAccount refuses while bookmarks exist", func(t *testing.T) {
		store := open(t, newStore)
		ctx := context.Background()

		account := models.NewAccount("frank", "x")
		require.NoError(t, store.CreateAccount(ctx, account))
		bookmark := models.NewBookmark(account, "http://bookmark.com/1/frank", "d")
		require.NoError(t, store.CreateBookmark(ctx, bookmark))

		assert.ErrorIs(t, store.DeleteAccount(ctx, account.ID), storage.ErrConflict)

		require.NoError(t, store.DeleteBookmark(ctx, bookmark.ID))
		require.NoError(t, store.DeleteAccount(ctx, account.ID))

		_, err := store.FindAccountByUsername(ctx, "frank")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, store.DeleteAccount(ctx, account.ID), storage.ErrNotFound)
	})

	t.Run("CreateBookmark and GetBookmark", func(t *testing.T) {
		store := open(t, newStore)
		ctx := context.Background()

		account := models.NewAccount("grace", "x")
		require.NoError(t, store.CreateAccount(ctx, account))

		bookmark := models.NewBookmark(account, "http://x/1", "first")
		require.NoError(t, store.CreateBookmark(ctx, bookmark))
		assert.NotZero(t, bookmark.ID)

		got, err := store.GetBookmark(ctx, bookmark.ID)
		require.NoError(t, err)
		assert.Equal(t, bookmark.URI, got.URI)
		assert.Equal(t, bookmark.Description, got.Description)
		assert.Equal(t, account.ID, got.AccountID)
	})

	t.Run("CreateBookmark requires existing owner", func(t *testing.T) {
		store := open(t, newStore)

		orphan := &models.Bookmark{AccountID: 777, URI: "http://x", Description: "d"}
		err := store.CreateBookmark(context.Background(), orphan)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("GetBookmark returns ErrNotFound", func(t *testing.T) {
		store := open(t, newStore)

		_, err := store.GetBookmark(context.Background(), 31337)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("List by owner returns exactly the owned bookmarks", func(t *testing.T) {
		store := open(t, newStore)
		ctx := context.Background()

		heidi := models.NewAccount("heidi", "x")
		ivan := models.NewAccount("ivan", "x")
		require.NoError(t, store.CreateAccount(ctx, heidi))
		require.NoError(t, store.CreateAccount(ctx, ivan))

		var heidiIDs []int64
		for _, uri := range []string{"http://h/1", "http://h/2"} {
			b := models.NewBookmark(heidi, uri, "d")
			require.NoError(t, store.CreateBookmark(ctx, b))
			heidiIDs = append(heidiIDs, b.ID)
		}
		require.NoError(t, store.CreateBookmark(ctx, models.NewBookmark(ivan, "http://i/1", "d")))

		byName, err := store.ListBookmarksByOwnerUsername(ctx, "heidi")
		require.NoError(t, err)
		assert.Equal(t, heidiIDs, bookmarkIDs(byName))

		byID, err := store.ListBookmarksByOwner(ctx, heidi.ID)
		require.NoError(t, err)
		assert.Equal(t, heidiIDs, bookmarkIDs(byID))

		none, err := store.ListBookmarksByOwnerUsername(ctx, "nobody")
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("UpdateBookmark", func(t *testing.T) {
		store := open(t, newStore)
		ctx := context.Background()

		account := models.NewAccount("judy", "x")
		require.NoError(t, store.CreateAccount(ctx, account))
		bookmark := models.NewBookmark(account, "http://old", "old")
		require.NoError(t, store.CreateBookmark(ctx, bookmark))

		bookmark.URI = "http://new"
		bookmark.Description = "new"
		require.NoError(t, store.UpdateBookmark(ctx, bookmark))

		got, err := store.GetBookmark(ctx, bookmark.ID)
		require.NoError(t, err)
		assert.Equal(t, "http://new", got.URI)
		assert.Equal(t, "new", got.Description)

		missing := &models.Bookmark{ID: 5555, URI: "http://x"}
		assert.ErrorIs(t, store.UpdateBookmark(ctx, missing), storage.ErrNotFound)
	})

	t.Run("DeleteBookmark removes exactly one", func(t *testing.T) {
		store := open(t, newStore)
		ctx := context.Background()

		account := models.NewAccount("miguel", "secret")
		require.NoError(t, store.CreateAccount(ctx, account))

		var ids []int64
		for _, uri := range []string{"http://bookmark.com/1/miguel", "http://bookmark.com/2/miguel", "http://bookmark.com/3/miguel"} {
			b := models.NewBookmark(account, uri, "d")
			require.NoError(t, store.CreateBookmark(ctx, b))
			ids = append(ids, b.ID)
		}

		require.NoError(t, store.DeleteBookmark(ctx, ids[1]))

		remaining, err := store.ListBookmarksByOwnerUsername(ctx, "miguel")
		require.NoError(t, err)
		assert.Equal(t, []int64{ids[0], ids[2]}, bookmarkIDs(remaining))

		_, err = store.GetBookmark(ctx, ids[1])
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, store.DeleteBookmark(ctx, ids[1]), storage.ErrNotFound)
	})

	t.Run("Deleted IDs are not reused", func(t *testing.T) {
		store := open(t, newStore)
		ctx := context.Background()

		account := models.NewAccount("kate", "x")
		require.NoError(t, store.CreateAccount(ctx, account))

		first := models.NewBookmark(account, "http://k/1", "d")
		require.NoError(t, store.CreateBookmark(ctx, first))
		require.NoError(t, store.DeleteBookmark(ctx, first.ID))

		second := models.NewBookmark(account, "http://k/2", "d")
		require.NoError(t, store.CreateBookmark(ctx, second))
		assert.Greater(t, second.ID, first.ID)
	})
}

func open(t *testing.T, newStore Factory) storage.Store {
	t.Helper()
	store := newStore(t)
	t.Cleanup(func() {
		assert.NoError(t, store.Close(), "failed to close store")
	})
	return store
}

func usernames(accounts []*models.Account) []string {
	names := make([]string, len(accounts))
	for i, a := range accounts {
		names[i] = a.Username
	}
	return names
}

func bookmarkIDs(bookmarks []*models.Bookmark) []int64 {
	ids := make([]int64, len(bookmarks))
	for i, b := range bookmarks {
		ids[i] = b.ID
	}
	return ids
}
