// Package badgerdb provides a BadgerDB-backed implementation of the storage.Store interface.
//
// Key layout:
//
//	account:{id}                      -> JSON account record
//	account_name:{username}           -> account id
//	bookmark:{id}                     -> JSON bookmark record
//	owner:{accountID}:bookmark:{id}   -> empty (ownership index)
//
// IDs are zero-padded so that prefix iteration yields ascending ID order.
package badgerdb

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/mmynk/bookmarks/internal/storage"
)

// Ensure BadgerStore implements storage.Store
var _ storage.Store = (*BadgerStore)(nil)

// sequenceBandwidth is how many IDs a sequence leases at a time.
const sequenceBandwidth = 100

// BadgerStore implements storage.Store using BadgerDB.
type BadgerStore struct {
	db          *badger.DB
	accountSeq  *badger.Sequence
	bookmarkSeq *badger.Sequence
	log         *slog.Logger
}

// New opens (or creates) a BadgerDB database in dir.
func New(dir string, logger *slog.Logger) (*BadgerStore, error) {
	log := logger.With("component", "badgerdb")

	opts := badger.DefaultOptions(dir)
	opts.Logger = &badgerLogger{log}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db at %s: %w", dir, err)
	}

	accountSeq, err := db.GetSequence([]byte("seq:account"), sequenceBandwidth)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open account sequence: %w", err)
	}
	bookmarkSeq, err := db.GetSequence([]byte("seq:bookmark"), sequenceBandwidth)
	if err != nil {
		accountSeq.Release()
		db.Close()
		return nil, fmt.Errorf("failed to open bookmark sequence: %w", err)
	}

	log.Info("BadgerDB opened", "path", dir)

	return &BadgerStore{
		db:          db,
		accountSeq:  accountSeq,
		bookmarkSeq: bookmarkSeq,
		log:         log,
	}, nil
}

// Close releases the ID sequences and closes the database.
func (s *BadgerStore) Close() error {
	if err := s.accountSeq.Release(); err != nil {
		s.log.Warn("Failed to release account sequence", "error", err)
	}
	if err := s.bookmarkSeq.Release(); err != nil {
		s.log.Warn("Failed to release bookmark sequence", "error", err)
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close badger db: %w", err)
	}
	return nil
}

// nextID returns the next ID from seq. Sequences start at 0; IDs start at 1.
func nextID(seq *badger.Sequence) (int64, error) {
	n, err := seq.Next()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate id: %w", err)
	}
	return int64(n) + 1, nil
}

func accountKey(id int64) []byte {
	return []byte(fmt.Sprintf("account:%020d", id))
}

func accountNameKey(username string) []byte {
	return []byte("account_name:" + username)
}

func bookmarkKey(id int64) []byte {
	return []byte(fmt.Sprintf("bookmark:%020d", id))
}

func ownerPrefix(accountID int64) []byte {
	return []byte(fmt.Sprintf("owner:%020d:bookmark:", accountID))
}

func ownerKey(accountID, bookmarkID int64) []byte {
	return append(ownerPrefix(accountID), []byte(fmt.Sprintf("%020d", bookmarkID))...)
}

// getJSON loads key into v, mapping a missing key to storage.ErrNotFound.
func getJSON(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return storage.ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshalRecord(val, v)
	})
}

// unmarshalRecord decodes a value slice, which is only valid inside the
// Value callback.
func unmarshalRecord(val []byte, v any) error {
	return json.Unmarshal(val, v)
}

func setJSON(txn *badger.Txn, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	return txn.Set(key, data)
}

// badgerLogger adapts slog to Badger's logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(f string, v ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(f, v...)))
}
func (l *badgerLogger) Warningf(f string, v ...interface{}) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(f, v...)))
}

// Badger is chatty at info level; its info lines go to debug.
func (l *badgerLogger) Infof(f string, v ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(f, v...)))
}
func (l *badgerLogger) Debugf(f string, v ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(f, v...)))
}
