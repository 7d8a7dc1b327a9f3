package service

import "fmt"

// UserNotFoundError reports that no account has the given username.
type UserNotFoundError struct {
	UserID string
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("could not find user '%s'.", e.UserID)
}

// BookmarkNotFoundError reports a missing bookmark.
//
// With UserID empty the bookmark does not exist at all. With UserID set the
// bookmark exists but is not owned by that user.
type BookmarkNotFoundError struct {
	UserID     string
	BookmarkID int64
}

func (e *BookmarkNotFoundError) Error() string {
	if e.UserID == "" {
		return fmt.Sprintf("could not find bookmark '%d'.", e.BookmarkID)
	}
	return fmt.Sprintf("could not find bookmark '%d' for '%s'.", e.BookmarkID, e.UserID)
}

// NotOwned reports whether the bookmark exists but belongs to someone else.
func (e *BookmarkNotFoundError) NotOwned() bool {
	return e.UserID != ""
}
