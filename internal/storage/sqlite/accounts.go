package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mmynk/bookmarks/internal/models"
	"github.com/mmynk/bookmarks/internal/storage"
)

const accountColumns = "id, username, password, created_at"

// CreateAccount inserts a new account into the database.
func (s *SQLiteStore) CreateAccount(ctx context.Context, account *models.Account) error {
	if account.CreatedAt == 0 {
		account.CreatedAt = time.Now().Unix()
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO accounts (username, password, created_at) VALUES (?, ?, ?)",
		account.Username, account.Password, account.CreatedAt,
	)
	if isConstraintErr(err) {
		return fmt.Errorf("username %q already taken: %w", account.Username, storage.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read account id: %w", err)
	}
	account.ID = id

	return nil
}

// GetAccount retrieves an account by its ID.
func (s *SQLiteStore) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	account, err := scanAccount(s.db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE id = ?", id,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("account %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account by ID: %w", err)
	}

	return account, nil
}

// FindAccountByUsername retrieves an account by its exact username.
func (s *SQLiteStore) FindAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	account, err := scanAccount(s.db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE username = ?", username,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("account %q: %w", username, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account by username: %w", err)
	}

	return account, nil
}

// ListAccounts retrieves all accounts ordered by ID.
func (s *SQLiteStore) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+accountColumns+" FROM accounts ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}

// UpdateAccount overwrites the username and password of an existing account.
func (s *SQLiteStore) UpdateAccount(ctx context.Context, account *models.Account) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE accounts SET username = ?, password = ? WHERE id = ?",
		account.Username, account.Password, account.ID,
	)
	if isConstraintErr(err) {
		return fmt.Errorf("username %q already taken: %w", account.Username, storage.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	return expectOneRow(res, fmt.Sprintf("account %d", account.ID))
}

// DeleteAccount removes an account that owns no bookmarks.
func (s *SQLiteStore) DeleteAccount(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var owned int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bookmarks WHERE account_id = ?", id,
	).Scan(&owned); err != nil {
		return fmt.Errorf("failed to count bookmarks: %w", err)
	}
	if owned > 0 {
		return fmt.Errorf("account %d still owns %d bookmarks: %w", id, owned, storage.ErrConflict)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM accounts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if err := expectOneRow(res, fmt.Sprintf("account %d", id)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	account := &models.Account{}
	if err := row.Scan(
		&account.ID,
		&account.Username,
		&account.Password,
		&account.CreatedAt,
	); err != nil {
		return nil, err
	}
	return account, nil
}

// expectOneRow turns a zero-row write into ErrNotFound.
func expectOneRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, storage.ErrNotFound)
	}
	return nil
}
