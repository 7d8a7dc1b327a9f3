// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/bookmarks/internal/models"
)

var (
	// ErrNotFound is returned (wrapped) when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned (wrapped) when a write would violate a
	// uniqueness or ownership constraint.
	ErrConflict = errors.New("conflict")
)

// AccountStore defines account persistence operations.
type AccountStore interface {
	// CreateAccount persists a new account. The account.ID field is
	// populated by the store. Returns ErrConflict if the username is taken.
	CreateAccount(ctx context.Context, account *models.Account) error

	// GetAccount retrieves an account by its ID.
	// Returns ErrNotFound if the account does not exist.
	GetAccount(ctx context.Context, id int64) (*models.Account, error)

	// FindAccountByUsername retrieves the account whose username matches
	// exactly. Returns ErrNotFound if there is none.
	FindAccountByUsername(ctx context.Context, username string) (*models.Account, error)

	// ListAccounts returns all accounts ordered by ID.
	ListAccounts(ctx context.Context) ([]*models.Account, error)

	// UpdateAccount overwrites the username and password of an existing account.
	UpdateAccount(ctx context.Context, account *models.Account) error

	// DeleteAccount removes an account. Returns ErrConflict while the
	// account still owns bookmarks.
	DeleteAccount(ctx context.Context, id int64) error
}

// BookmarkStore defines bookmark persistence operations.
type BookmarkStore interface {
	// CreateBookmark persists a new bookmark and populates bookmark.ID.
	// Returns ErrNotFound if the owning account does not exist.
	CreateBookmark(ctx context.Context, bookmark *models.Bookmark) error

	// GetBookmark retrieves a bookmark by its ID.
	// Returns ErrNotFound if the bookmark does not exist.
	GetBookmark(ctx context.Context, id int64) (*models.Bookmark, error)

	// ListBookmarksByOwner returns the bookmarks owned by an account, ordered by ID.
	ListBookmarksByOwner(ctx context.Context, accountID int64) ([]*models.Bookmark, error)

	// ListBookmarksByOwnerUsername returns the bookmarks whose owner has the
	// given username, ordered by ID. Unknown usernames yield an empty result.
	ListBookmarksByOwnerUsername(ctx context.Context, username string) ([]*models.Bookmark, error)

	// UpdateBookmark overwrites the URI and description of an existing bookmark.
	UpdateBookmark(ctx context.Context, bookmark *models.Bookmark) error

	// DeleteBookmark removes a bookmark by ID.
	// Returns ErrNotFound if the bookmark does not exist.
	DeleteBookmark(ctx context.Context, id int64) error
}

// Store combines account and bookmark storage.
// This abstraction allows swapping storage backends (SQLite, Badger)
// without changing the service layer.
type Store interface {
	AccountStore
	BookmarkStore

	// Close releases any resources held by the store.
	Close() error
}
