// Package sqlite persists the quote collection and the selected category in
// a single key-value table of an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	// Pure-Go SQLite driver, registered as "sqlite".
	_ "modernc.org/sqlite"

	"github.com/jsamuelsen/quotekeeper/internal/domain"
)

// Name identifies the store in health checks and errors.
const Name = "quote-store"

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`

// Config holds the store settings.
type Config struct {
	// Path is the database file. MemoryPath keeps everything in memory.
	Path string

	// QuotesKey is the key under which the collection is stored.
	QuotesKey string

	// FilterKey is the key under which the selected category is stored.
	FilterKey string

	Logger *slog.Logger
}

// Store implements ports.QuoteRepository on SQLite.
type Store struct {
	db        *sql.DB
	quotesKey string
	filterKey string
	logger    *slog.Logger
}

// Open opens or creates the database at cfg.Path and ensures the schema.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if cfg.Path == "" {
		return nil, domain.NewValidationError("store.path", "is required")
	}

	if cfg.Path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o750); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.Path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging store: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating kv table: %w", err)
	}

	cfg.Logger.Debug("quote store opened", slog.String("path", cfg.Path))

	return &Store{
		db:        db,
		quotesKey: cfg.QuotesKey,
		filterKey: cfg.FilterKey,
		logger:    cfg.Logger,
	}, nil
}

// LoadQuotes implements ports.QuoteRepository.
func (s *Store) LoadQuotes(ctx context.Context) ([]domain.Quote, bool, error) {
	raw, found, err := s.get(ctx, s.quotesKey)
	if err != nil || !found {
		return nil, found, err
	}

	quotes, err := domain.DecodeDocument([]byte(raw))
	if err != nil {
		return nil, true, fmt.Errorf("decoding %q: %w", s.quotesKey, err)
	}

	return quotes, true, nil
}

// SaveQuotes implements ports.QuoteRepository.
func (s *Store) SaveQuotes(ctx context.Context, quotes []domain.Quote) error {
	data, err := json.Marshal(domain.Clone(quotes))
	if err != nil {
		return fmt.Errorf("encoding quotes: %w", err)
	}

	return s.put(ctx, s.quotesKey, string(data))
}

// LoadFilter implements ports.QuoteRepository.
func (s *Store) LoadFilter(ctx context.Context) (string, bool, error) {
	return s.get(ctx, s.filterKey)
}

// SaveFilter implements ports.QuoteRepository.
func (s *Store) SaveFilter(ctx context.Context, category string) error {
	return s.put(ctx, s.filterKey, category)
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return Name
}

// Check implements ports.HealthChecker.
func (s *Store) Check(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) get(ctx context.Context, key string) (string, bool, error) {
	var value string

	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("reading %q: %w", key, domain.NewUnavailableError(Name, err.Error()))
	}

	return value, true, nil
}

func (s *Store) put(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("writing %q: %w", key, domain.NewUnavailableError(Name, err.Error()))
	}

	s.logger.Debug("stored value", slog.String("key", key), slog.Int("bytes", len(value)))

	return nil
}
