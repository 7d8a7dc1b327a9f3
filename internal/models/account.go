package models

import "time"

// Account represents a registered user account.
//
// The password is stored but never checked; there is no authentication.
type Account struct {
	// ID is the store-assigned identifier.
	ID int64 `json:"id"`

	// Username is unique and is the {userId} path segment of the API.
	Username string `json:"username"`

	// Password is opaque. Seeded accounts store a bcrypt hash here.
	Password string `json:"-"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"-"`
}

// NewAccount creates an account ready to be persisted.
func NewAccount(username, password string) *Account {
	return &Account{
		Username:  username,
		Password:  password,
		CreatedAt: time.Now().Unix(),
	}
}
