package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/mmynk/bookmarks/internal/models"
	"github.com/mmynk/bookmarks/internal/storage"
)

// accountRecord is the stored form of models.Account. The model hides the
// password from JSON, so it cannot be marshalled directly.
type accountRecord struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	CreatedAt int64  `json:"created_at"`
}

func newAccountRecord(a *models.Account) accountRecord {
	return accountRecord{ID: a.ID, Username: a.Username, Password: a.Password, CreatedAt: a.CreatedAt}
}

func (r accountRecord) model() *models.Account {
	return &models.Account{ID: r.ID, Username: r.Username, Password: r.Password, CreatedAt: r.CreatedAt}
}

// CreateAccount stores a new account and its username index entry.
func (s *BadgerStore) CreateAccount(ctx context.Context, account *models.Account) error {
	log := s.log.With("username", account.Username)

	if account.CreatedAt == 0 {
		account.CreatedAt = time.Now().Unix()
	}
	id, err := nextID(s.accountSeq)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(accountNameKey(account.Username)); err == nil {
			return fmt.Errorf("username %q already taken: %w", account.Username, storage.ErrConflict)
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		rec := newAccountRecord(account)
		rec.ID = id
		if err := setJSON(txn, accountKey(id), rec); err != nil {
			return err
		}
		return txn.Set(accountNameKey(account.Username), []byte(strconv.FormatInt(id, 10)))
	})
	if err != nil {
		log.Error("Failed to save account", "error", err)
		return fmt.Errorf("failed to create account: %w", err)
	}

	account.ID = id
	log.Debug("Account saved", "account_id", id)
	return nil
}

// GetAccount retrieves an account by its ID.
func (s *BadgerStore) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	var rec accountRecord
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, accountKey(id), &rec)
	})
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("account %d: %w", id, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account by ID: %w", err)
	}
	return rec.model(), nil
}

// FindAccountByUsername resolves the username index and loads the account.
func (s *BadgerStore) FindAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	var rec accountRecord
	err := s.db.View(func(txn *badger.Txn) error {
		id, err := lookupAccountID(txn, username)
		if err != nil {
			return err
		}
		return getJSON(txn, accountKey(id), &rec)
	})
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("account %q: %w", username, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account by username: %w", err)
	}
	return rec.model(), nil
}

// ListAccounts returns all accounts in ID order.
func (s *BadgerStore) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	var accounts []*models.Account
	prefix := []byte("account:")

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec accountRecord
			if err := it.Item().Value(func(val []byte) error {
				return unmarshalRecord(val, &rec)
			}); err != nil {
				return fmt.Errorf("failed to decode account %s: %w", it.Item().Key(), err)
			}
			accounts = append(accounts, rec.model())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// UpdateAccount overwrites an account, moving its username index entry if
// the username changed.
func (s *BadgerStore) UpdateAccount(ctx context.Context, account *models.Account) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		var current accountRecord
		if err := getJSON(txn, accountKey(account.ID), &current); err != nil {
			return err
		}

		if current.Username != account.Username {
			if _, err := txn.Get(accountNameKey(account.Username)); err == nil {
				return fmt.Errorf("username %q already taken: %w", account.Username, storage.ErrConflict)
			} else if err != badger.ErrKeyNotFound {
				return err
			}
			if err := txn.Delete(accountNameKey(current.Username)); err != nil {
				return err
			}
			if err := txn.Set(accountNameKey(account.Username), []byte(strconv.FormatInt(account.ID, 10))); err != nil {
				return err
			}
		}

		rec := newAccountRecord(account)
		rec.CreatedAt = current.CreatedAt
		return setJSON(txn, accountKey(account.ID), rec)
	})
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("account %d: %w", account.ID, err)
	}
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}

// DeleteAccount removes an account that owns no bookmarks.
func (s *BadgerStore) DeleteAccount(ctx context.Context, id int64) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		var current accountRecord
		if err := getJSON(txn, accountKey(id), &current); err != nil {
			return err
		}

		owned, err := ownedBookmarkIDs(txn, id)
		if err != nil {
			return err
		}
		if len(owned) > 0 {
			return fmt.Errorf("account %d still owns %d bookmarks: %w", id, len(owned), storage.ErrConflict)
		}

		if err := txn.Delete(accountNameKey(current.Username)); err != nil {
			return err
		}
		return txn.Delete(accountKey(id))
	})
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("account %d: %w", id, err)
	}
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

// lookupAccountID resolves a username through the index.
func lookupAccountID(txn *badger.Txn, username string) (int64, error) {
	item, err := txn.Get(accountNameKey(username))
	if err == badger.ErrKeyNotFound {
		return 0, storage.ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	var id int64
	err = item.Value(func(val []byte) error {
		id, err = strconv.ParseInt(string(val), 10, 64)
		return err
	})
	return id, err
}
