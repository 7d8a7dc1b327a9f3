package main

import (
	"fmt"
	"log/slog"

	"github.com/mmynk/bookmarks/internal/config"
	"github.com/mmynk/bookmarks/internal/storage"
	"github.com/mmynk/bookmarks/internal/storage/badgerdb"
	"github.com/mmynk/bookmarks/internal/storage/sqlite"
)

// openStore opens the backend selected by cfg.Storage.
func openStore(cfg config.Config, logger *slog.Logger) (storage.Store, error) {
	switch cfg.Storage {
	case config.StorageBadger:
		store, err := badgerdb.New(cfg.BadgerPath, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		logger.Info("Storage initialized", "backend", cfg.Storage, "path", cfg.BadgerPath)
		return store, nil
	default:
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		logger.Info("Storage initialized", "backend", cfg.Storage, "database", cfg.DBPath)
		return store, nil
	}
}
