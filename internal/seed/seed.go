// Package seed populates a store with sample accounts and bookmarks.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/bookmarks/internal/auth"
	"github.com/mmynk/bookmarks/internal/models"
	"github.com/mmynk/bookmarks/internal/storage"
)

// SampleAccount is an account with its initial bookmarks.
type SampleAccount struct {
	Username  string
	Password  string
	Bookmarks []SampleBookmark
}

// SampleBookmark is one initial bookmark.
type SampleBookmark struct {
	URI         string
	Description string
}

// Samples returns the default data set: eight accounts with two bookmarks
// each, plus "miguel" with three.
func Samples() []SampleAccount {
	var samples []SampleAccount
	for _, name := range []string{"steve", "peter", "bruce", "clark", "rwinch", "mfisher", "mpollack", "jlong"} {
		samples = append(samples, SampleAccount{
			Username: name,
			Password: "password",
			Bookmarks: []SampleBookmark{
				{URI: "http://bookmark.com/1/" + name, Description: "A description"},
				{URI: "http://bookmark.com/2/" + name, Description: "A description"},
			},
		})
	}

	samples = append(samples, SampleAccount{
		Username: "miguel",
		Password: "secret",
		Bookmarks: []SampleBookmark{
			{URI: "http://bookmark.com/1/miguel", Description: "First bookmark description"},
			{URI: "http://bookmark.com/2/miguel", Description: "Second bookmark description"},
			{URI: "http://bookmark.com/3/miguel", Description: "Third bookmark description"},
		},
	})
	return samples
}

// Result summarises a seeding run.
type Result struct {
	AccountsCreated  int
	AccountsSkipped  int
	BookmarksCreated int
}

// Seed creates the given accounts and their bookmarks. Accounts that
// already exist are left untouched, so running it twice is harmless.
func Seed(ctx context.Context, store storage.Store, samples []SampleAccount, logger *slog.Logger) (Result, error) {
	var res Result

	for _, sample := range samples {
		_, err := store.FindAccountByUsername(ctx, sample.Username)
		if err == nil {
			logger.Debug("Account already present, skipping", "username", sample.Username)
			res.AccountsSkipped++
			continue
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return res, fmt.Errorf("failed to look up %q: %w", sample.Username, err)
		}

		hashed, err := auth.HashPassword(sample.Password)
		if err != nil {
			return res, fmt.Errorf("failed to prepare %q: %w", sample.Username, err)
		}

		account := models.NewAccount(sample.Username, hashed)
		if err := store.CreateAccount(ctx, account); err != nil {
			return res, fmt.Errorf("failed to seed account %q: %w", sample.Username, err)
		}
		res.AccountsCreated++

		for _, b := range sample.Bookmarks {
			if err := store.CreateBookmark(ctx, models.NewBookmark(account, b.URI, b.Description)); err != nil {
				return res, fmt.Errorf("failed to seed bookmark %q: %w", b.URI, err)
			}
			res.BookmarksCreated++
		}
	}

	logger.Info("Seeding finished",
		"accounts_created", res.AccountsCreated,
		"accounts_skipped", res.AccountsSkipped,
		"bookmarks_created", res.BookmarksCreated,
	)
	return res, nil
}
