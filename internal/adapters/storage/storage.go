// Package storage selects the quote repository implementation.
package storage

import (
	"context"
	"log/slog"

	"github.com/jsamuelsen/quotekeeper/internal/adapters/storage/memory"
	"github.com/jsamuelsen/quotekeeper/internal/adapters/storage/sqlite"
	"github.com/jsamuelsen/quotekeeper/internal/domain"
	"github.com/jsamuelsen/quotekeeper/internal/ports"
)

// Supported drivers.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Repository is a quote repository that can report its health.
type Repository interface {
	ports.QuoteRepository
	ports.HealthChecker
}

// Config selects and configures the repository.
type Config struct {
	Driver    string
	Path      string
	QuotesKey string
	FilterKey string
	Logger    *slog.Logger
}

// Open returns the repository for cfg.Driver.
func Open(ctx context.Context, cfg Config) (Repository, error) {
	switch cfg.Driver {
	case DriverSQLite, "":
		store, err := sqlite.Open(ctx, sqlite.Config{
			Path:      cfg.Path,
			QuotesKey: cfg.QuotesKey,
			FilterKey: cfg.FilterKey,
			Logger:    cfg.Logger,
		})
		if err != nil {
			return nil, err
		}

		return store, nil
	case DriverMemory:
		return memory.New(cfg.QuotesKey, cfg.FilterKey), nil
	default:
		return nil, domain.NewValidationErrorWithValue("store.driver", "must be one of: sqlite memory", cfg.Driver)
	}
}
