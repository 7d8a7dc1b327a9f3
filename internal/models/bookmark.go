package models

import "time"

// Bookmark is a URI saved by an account.
type Bookmark struct {
	ID int64 `json:"id"`

	// AccountID references the owning account. It is never serialized.
	AccountID int64 `json:"-"`

	URI         string `json:"uri"`
	Description string `json:"description"`

	CreatedAt int64 `json:"-"`
}

// NewBookmark creates a bookmark bound to the given owner.
func NewBookmark(owner *Account, uri, description string) *Bookmark {
	return &Bookmark{
		AccountID:   owner.ID,
		URI:         uri,
		Description: description,
		CreatedAt:   time.Now().Unix(),
	}
}
