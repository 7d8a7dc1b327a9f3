package badgerdb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/mmynk/bookmarks/internal/models"
	"github.com/mmynk/bookmarks/internal/storage"
)

// bookmarkRecord is the stored form of models.Bookmark.
type bookmarkRecord struct {
	ID          int64  `json:"id"`
	AccountID   int64  `json:"account_id"`
	URI         string `json:"uri"`
	Description string `json:"description"`
	CreatedAt   int64  `json:"created_at"`
}

func newBookmarkRecord(b *models.Bookmark) bookmarkRecord {
	return bookmarkRecord{
		ID:          b.ID,
		AccountID:   b.AccountID,
		URI:         b.URI,
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
	}
}

func (r bookmarkRecord) model() *models.Bookmark {
	return &models.Bookmark{
		ID:          r.ID,
		AccountID:   r.AccountID,
		URI:         r.URI,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
	}
}

// CreateBookmark stores a bookmark and its ownership index entry.
func (s *BadgerStore) CreateBookmark(ctx context.Context, bookmark *models.Bookmark) error {
	log := s.log.With("account_id", bookmark.AccountID, "uri", bookmark.URI)

	if bookmark.CreatedAt == 0 {
		bookmark.CreatedAt = time.Now().Unix()
	}
	id, err := nextID(s.bookmarkSeq)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(accountKey(bookmark.AccountID)); err == badger.ErrKeyNotFound {
			return fmt.Errorf("owner account %d: %w", bookmark.AccountID, storage.ErrNotFound)
		} else if err != nil {
			return err
		}

		rec := newBookmarkRecord(bookmark)
		rec.ID = id
		if err := setJSON(txn, bookmarkKey(id), rec); err != nil {
			return err
		}
		return txn.Set(ownerKey(bookmark.AccountID, id), nil)
	})
	if err != nil {
		log.Error("Failed to save bookmark", "error", err)
		return fmt.Errorf("failed to create bookmark: %w", err)
	}

	bookmark.ID = id
	log.Debug("Bookmark saved", "bookmark_id", id)
	return nil
}

// GetBookmark retrieves a bookmark by ID.
func (s *BadgerStore) GetBookmark(ctx context.Context, id int64) (*models.Bookmark, error) {
	var rec bookmarkRecord
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, bookmarkKey(id), &rec)
	})
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("bookmark %d: %w", id, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmark: %w", err)
	}
	return rec.model(), nil
}

// ListBookmarksByOwner walks the ownership index of an account.
func (s *BadgerStore) ListBookmarksByOwner(ctx context.Context, accountID int64) ([]*models.Bookmark, error) {
	var bookmarks []*models.Bookmark
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		bookmarks, err = loadOwnedBookmarks(txn, accountID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks for account %d: %w", accountID, err)
	}
	return bookmarks, nil
}

// ListBookmarksByOwnerUsername resolves the username and walks its ownership index.
func (s *BadgerStore) ListBookmarksByOwnerUsername(ctx context.Context, username string) ([]*models.Bookmark, error) {
	bookmarks := []*models.Bookmark{}
	err := s.db.View(func(txn *badger.Txn) error {
		accountID, err := lookupAccountID(txn, username)
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		bookmarks, err = loadOwnedBookmarks(txn, accountID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks for %q: %w", username, err)
	}
	return bookmarks, nil
}

// UpdateBookmark overwrites the URI and description of a bookmark.
// The owner is never changed.
func (s *BadgerStore) UpdateBookmark(ctx context.Context, bookmark *models.Bookmark) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		var rec bookmarkRecord
		if err := getJSON(txn, bookmarkKey(bookmark.ID), &rec); err != nil {
			return err
		}
		rec.URI = bookmark.URI
		rec.Description = bookmark.Description
		return setJSON(txn, bookmarkKey(bookmark.ID), rec)
	})
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("bookmark %d: %w", bookmark.ID, err)
	}
	if err != nil {
		return fmt.Errorf("failed to update bookmark: %w", err)
	}
	return nil
}

// DeleteBookmark removes a bookmark and its ownership index entry.
func (s *BadgerStore) DeleteBookmark(ctx context.Context, id int64) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		var rec bookmarkRecord
		if err := getJSON(txn, bookmarkKey(id), &rec); err != nil {
			return err
		}
		if err := txn.Delete(ownerKey(rec.AccountID, id)); err != nil {
			return err
		}
		return txn.Delete(bookmarkKey(id))
	})
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("bookmark %d: %w", id, err)
	}
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}

	s.log.Debug("Bookmark deleted", "bookmark_id", id)
	return nil
}

// ownedBookmarkIDs returns the IDs in an account's ownership index, ascending.
func ownedBookmarkIDs(txn *badger.Txn, accountID int64) ([]int64, error) {
	prefix := ownerPrefix(accountID)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var ids []int64
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		raw := bytes.TrimPrefix(it.Item().Key(), prefix)
		id, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed ownership key %q: %w", it.Item().Key(), err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func loadOwnedBookmarks(txn *badger.Txn, accountID int64) ([]*models.Bookmark, error) {
	ids, err := ownedBookmarkIDs(txn, accountID)
	if err != nil {
		return nil, err
	}

	bookmarks := make([]*models.Bookmark, 0, len(ids))
	for _, id := range ids {
		var rec bookmarkRecord
		if err := getJSON(txn, bookmarkKey(id), &rec); err != nil {
			return nil, fmt.Errorf("failed to load bookmark %d: %w", id, err)
		}
		bookmarks = append(bookmarks, rec.model())
	}
	return bookmarks, nil
}
