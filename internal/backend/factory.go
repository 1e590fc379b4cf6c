// Package backend constructs the record store selected by configuration.
package backend

import (
	"fmt"
	"log/slog"

	"expenses/internal/config"
	"expenses/internal/records"
	"expenses/internal/records/memory"
	"expenses/internal/records/sqlite"
)

// NewStore builds the configured backend. The caller owns Close.
func NewStore(cfg *config.Config, logger *slog.Logger) (records.Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.DataBackend {
	case "sqlite":
		repo, err := sqlite.NewRepository(cfg.SQLiteDSN)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		logger.Info("Initialized SQLite backend", "dsn", cfg.SQLiteDSN)
		return repo, nil
	case "memory":
		logger.Info("Initialized memory backend")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.DataBackend)
	}
}
