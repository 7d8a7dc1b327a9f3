// Package service implements the bookmark operations on top of a storage backend.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/bookmarks/internal/models"
	"github.com/mmynk/bookmarks/internal/storage"
)

// BookmarkService validates users and bookmarks before touching the store.
type BookmarkService struct {
	accounts  storage.AccountStore
	bookmarks storage.BookmarkStore
	logger    *slog.Logger
}

// NewBookmarkService creates a new BookmarkService with the given storage backends.
func NewBookmarkService(accounts storage.AccountStore, bookmarks storage.BookmarkStore, logger *slog.Logger) *BookmarkService {
	return &BookmarkService{
		accounts:  accounts,
		bookmarks: bookmarks,
		logger:    logger,
	}
}

// ListBookmarks returns all bookmarks owned by userID.
func (s *BookmarkService) ListBookmarks(ctx context.Context, userID string) ([]*models.Bookmark, error) {
	if _, err := s.validateUser(ctx, userID); err != nil {
		return nil, err
	}

	bookmarks, err := s.bookmarks.ListBookmarksByOwnerUsername(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Bookmarks listed", "user_id", userID, "count", len(bookmarks))
	return bookmarks, nil
}

// GetBookmark returns one bookmark of userID. Existence and ownership are
// checked separately and fail with different BookmarkNotFoundError variants.
func (s *BookmarkService) GetBookmark(ctx context.Context, userID string, bookmarkID int64) (*models.Bookmark, error) {
	if _, err := s.validateUser(ctx, userID); err != nil {
		return nil, err
	}

	bookmark, err := s.validateBookmark(ctx, bookmarkID)
	if err != nil {
		return nil, err
	}

	if err := s.checkOwnership(ctx, userID, bookmark); err != nil {
		return nil, err
	}

	return bookmark, nil
}

// CreateBookmark stores a new bookmark owned by userID.
func (s *BookmarkService) CreateBookmark(ctx context.Context, userID, uri, description string) (*models.Bookmark, error) {
	account, err := s.validateUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	bookmark := models.NewBookmark(account, uri, description)
	if err := s.bookmarks.CreateBookmark(ctx, bookmark); err != nil {
		// The account was deleted between the check and the insert.
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &UserNotFoundError{UserID: userID}
		}
		return nil, err
	}

	s.logger.Info("Bookmark created", "user_id", userID, "bookmark_id", bookmark.ID)
	return bookmark, nil
}

// DeleteBookmark removes one bookmark of userID and returns it.
func (s *BookmarkService) DeleteBookmark(ctx context.Context, userID string, bookmarkID int64) (*models.Bookmark, error) {
	if _, err := s.validateUser(ctx, userID); err != nil {
		return nil, err
	}

	bookmark, err := s.validateBookmark(ctx, bookmarkID)
	if err != nil {
		return nil, err
	}

	if err := s.checkOwnership(ctx, userID, bookmark); err != nil {
		return nil, err
	}

	if err := s.bookmarks.DeleteBookmark(ctx, bookmarkID); err != nil {
		// Lost a race with a concurrent delete.
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &BookmarkNotFoundError{BookmarkID: bookmarkID}
		}
		return nil, err
	}

	s.logger.Info("Bookmark deleted", "user_id", userID, "bookmark_id", bookmarkID)
	return bookmark, nil
}

// validateUser fails with UserNotFoundError unless userID names an account.
func (s *BookmarkService) validateUser(ctx context.Context, userID string) (*models.Account, error) {
	account, err := s.accounts.FindAccountByUsername(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &UserNotFoundError{UserID: userID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to validate user: %w", err)
	}
	return account, nil
}

// validateBookmark fails with BookmarkNotFoundError unless the bookmark exists
// for any user.
func (s *BookmarkService) validateBookmark(ctx context.Context, bookmarkID int64) (*models.Bookmark, error) {
	bookmark, err := s.bookmarks.GetBookmark(ctx, bookmarkID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &BookmarkNotFoundError{BookmarkID: bookmarkID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to validate bookmark: %w", err)
	}
	return bookmark, nil
}

// checkOwnership scans the user's bookmarks for the given one.
func (s *BookmarkService) checkOwnership(ctx context.Context, userID string, bookmark *models.Bookmark) error {
	owned, err := s.bookmarks.ListBookmarksByOwnerUsername(ctx, userID)
	if err != nil {
		return err
	}

	for _, b := range owned {
		if b.ID == bookmark.ID {
			return nil
		}
	}

	s.logger.Warn("Bookmark not owned by user", "user_id", userID, "bookmark_id", bookmark.ID)
	return &BookmarkNotFoundError{UserID: userID, BookmarkID: bookmark.ID}
}
