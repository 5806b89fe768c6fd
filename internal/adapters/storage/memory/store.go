// Package memory provides a process-local quote repository. Values are kept
// in their encoded form so that it behaves like the durable store.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jsamuelsen/quotekeeper/internal/domain"
)

// Name identifies the store in health checks.
const Name = "quote-store"

// Store implements ports.QuoteRepository in memory.
type Store struct {
	mu        sync.RWMutex
	values    map[string]string
	quotesKey string
	filterKey string
	closed    bool
}

// New creates an empty store using the given keys.
func New(quotesKey, filterKey string) *Store {
	return &Store{
		values:    make(map[string]string),
		quotesKey: quotesKey,
		filterKey: filterKey,
	}
}

// Put stores a raw value under key, bypassing encoding.
func (s *Store) Put(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
}

// Raw returns the value stored under key.
func (s *Store) Raw(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]

	return v, ok
}

// LoadQuotes implements ports.QuoteRepository.
func (s *Store) LoadQuotes(ctx context.Context) ([]domain.Quote, bool, error) {
	raw, found, err := s.get(s.quotesKey)
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

	return s.set(s.quotesKey, string(data))
}

// LoadFilter implements ports.QuoteRepository.
func (s *Store) LoadFilter(ctx context.Context) (string, bool, error) {
	return s.get(s.filterKey)
}

// SaveFilter implements ports.QuoteRepository.
func (s *Store) SaveFilter(ctx context.Context, category string) error {
	return s.set(s.filterKey, category)
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return Name
}

// Check implements ports.HealthChecker.
func (s *Store) Check(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return domain.NewUnavailableError(Name, "closed")
	}

	return nil
}

// Close marks the store closed. Values remain readable through Raw.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true

	return nil
}

func (s *Store) get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", false, domain.NewUnavailableError(Name, "closed")
	}

	v, ok := s.values[key]

	return v, ok, nil
}

func (s *Store) set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.NewUnavailableError(Name, "closed")
	}

	s.values[key] = value

	return nil
}
