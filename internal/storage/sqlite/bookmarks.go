package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mmynk/bookmarks/internal/models"
	"github.com/mmynk/bookmarks/internal/storage"
)

const bookmarkColumns = "b.id, b.account_id, b.uri, b.description, b.created_at"

// CreateBookmark persists a new bookmark to the database.
// The owner check and the insert share a transaction.
func (s *SQLiteStore) CreateBookmark(ctx context.Context, bookmark *models.Bookmark) error {
	if bookmark.CreatedAt == 0 {
		bookmark.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM accounts WHERE id = ?", bookmark.AccountID).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("owner account %d: %w", bookmark.AccountID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check account existence: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookmarks (account_id, uri, description, created_at)
		 VALUES (?, ?, ?, ?)`,
		bookmark.AccountID, bookmark.URI, bookmark.Description, bookmark.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bookmark: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read bookmark id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	bookmark.ID = id
	return nil
}

// GetBookmark retrieves a bookmark by ID.
func (s *SQLiteStore) GetBookmark(ctx context.Context, id int64) (*models.Bookmark, error) {
	bookmark, err := scanBookmark(s.db.QueryRowContext(ctx,
		"SELECT "+bookmarkColumns+" FROM bookmarks b WHERE b.id = ?", id,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("bookmark %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmark: %w", err)
	}

	return bookmark, nil
}

// ListBookmarksByOwner retrieves all bookmarks for an account.
func (s *SQLiteStore) ListBookmarksByOwner(ctx context.Context, accountID int64) ([]*models.Bookmark, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+bookmarkColumns+" FROM bookmarks b WHERE b.account_id = ? ORDER BY b.id",
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks by owner: %w", err)
	}
	return collectBookmarks(rows)
}

// ListBookmarksByOwnerUsername retrieves all bookmarks whose owner has the given username.
func (s *SQLiteStore) ListBookmarksByOwnerUsername(ctx context.Context, username string) ([]*models.Bookmark, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookmarkColumns+`
		 FROM bookmarks b JOIN accounts a ON a.id = b.account_id
		 WHERE a.username = ? ORDER BY b.id`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks by username: %w", err)
	}
	return collectBookmarks(rows)
}

// UpdateBookmark overwrites the URI and description of a bookmark.
func (s *SQLiteStore) UpdateBookmark(ctx context.Context, bookmark *models.Bookmark) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE bookmarks SET uri = ?, description = ? WHERE id = ?",
		bookmark.URI, bookmark.Description, bookmark.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bookmark: %w", err)
	}

	return expectOneRow(res, fmt.Sprintf("bookmark %d", bookmark.ID))
}

// DeleteBookmark removes a bookmark by ID.
func (s *SQLiteStore) DeleteBookmark(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM bookmarks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}

	return expectOneRow(res, fmt.Sprintf("bookmark %d", id))
}

func scanBookmark(row rowScanner) (*models.Bookmark, error) {
	bookmark := &models.Bookmark{}
	if err := row.Scan(
		&bookmark.ID,
		&bookmark.AccountID,
		&bookmark.URI,
		&bookmark.Description,
		&bookmark.CreatedAt,
	); err != nil {
		return nil, err
	}
	return bookmark, nil
}

// collectBookmarks drains and closes rows.
func collectBookmarks(rows *sql.Rows) ([]*models.Bookmark, error) {
	defer rows.Close()

	bookmarks := []*models.Bookmark{}
	for rows.Next() {
		bookmark, err := scanBookmark(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		bookmarks = append(bookmarks, bookmark)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookmarks: %w", err)
	}

	return bookmarks, nil
}
