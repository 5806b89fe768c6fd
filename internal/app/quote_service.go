// Package app contains application services that orchestrate use cases.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"sync"

	"github.com/jsamuelsen/quotekeeper/internal/domain"
	"github.com/jsamuelsen/quotekeeper/internal/ports"
)

// Notification texts shown to the user.
const (
	MsgImportFailed = "Failed to import quotes: "
	MsgImported     = "Quotes imported successfully!"
)

// Publisher receives quotes added by the user.
type Publisher interface {
	// Push hands off a quote without waiting for the outcome and reports
	// whether it was accepted.
	Push(ctx context.Context, quote domain.Quote) bool
}

// QuoteService owns the quote collection and the selected category. It is
// the only writer of the store: every mutation updates the in-memory list
// and persists the whole collection before returning.
type QuoteService struct {
	repo     ports.QuoteRepository
	notifier ports.Notifier
	match    domain.CategoryMatch
	strict   bool
	metrics  *Metrics
	logger   *slog.Logger

	mu       sync.RWMutex
	quotes   []domain.Quote
	selected string
	closed   bool

	// filterMu orders filter changes so that memory and storage agree on
	// the last one.
	filterMu sync.Mutex

	rndMu sync.Mutex
	rnd   *rand.Rand

	pubMu     sync.RWMutex
	publisher Publisher
}

// QuoteServiceConfig contains the dependencies of the quote service.
type QuoteServiceConfig struct {
	Repository ports.QuoteRepository
	Notifier   ports.Notifier

	// Match controls how a selected category is compared to quote categories.
	Match domain.CategoryMatch

	// StrictImport rejects imported documents containing quotes that would
	// not pass the checks applied to manually added ones.
	StrictImport bool

	// Rand is the source for random selection. Nil uses the global generator.
	Rand *rand.Rand

	Metrics *Metrics
	Logger  *slog.Logger
}

// NewQuoteService creates a quote service holding the seed collection.
// Call Load to restore persisted state. Panics if Repository is nil.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Repository == nil {
		panic("QuoteService: Repository is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	match := cfg.Match
	if match == "" {
		match = domain.MatchExact
	}

	return &QuoteService{
		repo:     cfg.Repository,
		notifier: cfg.Notifier,
		match:    match,
		strict:   cfg.StrictImport,
		metrics:  cfg.Metrics,
		logger:   logger.With(slog.String("component", "app.QuoteService")),
		quotes:   domain.SeedQuotes(),
		selected: domain.AllCategories,
		rnd:      cfg.Rand,
	}
}

// SetPublisher registers the receiver of newly added quotes.
func (s *QuoteService) SetPublisher(p Publisher) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.publisher = p
}

// Load restores the collection and the selected category from the
// repository. A missing or undecodable collection falls back to the seed
// quotes. The saved category is restored only if it still exists.
func (s *QuoteService) Load(ctx context.Context) error {
	logger := s.logger

	quotes, found, err := s.repo.LoadQuotes(ctx)

	switch {
	case err != nil && domain.IsMalformed(err):
		logger.WarnContext(ctx, "stored quotes are unreadable, using seed quotes", slog.Any("error", err))

		quotes = domain.SeedQuotes()
	case err != nil:
		// Seeding here would let the next save overwrite the stored quotes.
		return fmt.Errorf("loading quotes: %w", err)
	case !found:
		logger.InfoContext(ctx, "no stored quotes, using seed quotes")

		quotes = domain.SeedQuotes()
	}

	selected := domain.AllCategories

	category, found, err := s.repo.LoadFilter(ctx)
	if err != nil {
		logger.WarnContext(ctx, "stored category is unreadable", slog.Any("error", err))
	} else if found {
		if domain.HasCategory(quotes, category) {
			selected = category
		} else {
			logger.InfoContext(ctx, "stored category no longer exists, showing all",
				slog.String("category", category),
			)
		}
	}

	s.mu.Lock()
	s.quotes = quotes
	s.selected = selected
	s.mu.Unlock()

	s.metrics.setStoreSize(len(quotes))

	logger.InfoContext(ctx, "quotes loaded",
		slog.Int("count", len(quotes)),
		slog.String("category", selected),
	)

	return nil
}

// Save persists the current collection.
func (s *QuoteService) Save(ctx context.Context) error {
	s.mu.RLock()
	snapshot := domain.Clone(s.quotes)
	s.mu.RUnlock()

	if err := s.repo.SaveQuotes(ctx, snapshot); err != nil {
		return fmt.Errorf("saving quotes: %w", err)
	}

	return nil
}

// AddQuote validates and appends a quote, persists the collection and hands
// the quote to the publisher. Invalid input leaves the store untouched.
func (s *QuoteService) AddQuote(ctx context.Context, text, category string) (domain.Quote, error) {
	quote, err := domain.NewQuote(text, category)
	if err != nil {
		return domain.Quote{}, err
	}

	if err := s.append(ctx, quote); err != nil {
		return domain.Quote{}, err
	}

	s.logger.InfoContext(ctx, "quote added", slog.String("category", quote.Category))

	s.pubMu.RLock()
	publisher := s.publisher
	s.pubMu.RUnlock()

	if publisher != nil && !publisher.Push(ctx, quote) {
		s.logger.DebugContext(ctx, "quote not pushed")
	}

	return quote, nil
}

// Quotes returns a copy of the collection in insertion order.
func (s *QuoteService) Quotes() []domain.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.Clone(s.quotes)
}

// Len returns the number of quotes in the store.
func (s *QuoteService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.quotes)
}

// Categories returns the category index of the current collection.
func (s *QuoteService) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.Categories(s.quotes)
}

// SelectedCategory returns the current filter.
func (s *QuoteService) SelectedCategory() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.selected
}

// SetFilter stores category as the current filter and returns a random
// quote from it. An empty filter returns domain.ErrNoQuotes; the
// selection is kept either way.
func (s *QuoteService) SetFilter(ctx context.Context, category string) (domain.Quote, error) {
	if category == "" {
		return domain.Quote{}, domain.NewValidationError("category", "must not be empty")
	}

	if err := s.storeFilter(ctx, category); err != nil {
		return domain.Quote{}, err
	}

	s.logger.DebugContext(ctx, "filter changed", slog.String("category", category))

	return s.RandomQuote(ctx, category)
}

// RandomQuote picks a quote from category, or from the selected filter when
// category is empty. It returns domain.ErrNoQuotes when nothing matches.
func (s *QuoteService) RandomQuote(ctx context.Context, category string) (domain.Quote, error) {
	s.mu.RLock()
	if category == "" {
		category = s.selected
	}
	candidates := domain.Filter(s.quotes, category, s.match)
	s.mu.RUnlock()

	s.rndMu.Lock()
	defer s.rndMu.Unlock()

	return domain.Select(candidates, domain.AllCategories, s.match, s.rnd)
}

// Export renders the collection as a quotes document.
func (s *QuoteService) Export(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	snapshot := domain.Clone(s.quotes)
	s.mu.RUnlock()

	data, err := domain.EncodeDocument(snapshot)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "quotes exported", slog.Int("count", len(snapshot)))

	return data, nil
}

// Import appends every quote of an uploaded document and persists the
// result. A rejected document leaves the store untouched. The user is
// notified of the outcome either way.
func (s *QuoteService) Import(ctx context.Context, data []byte) (int, error) {
	n, err := s.importDocument(ctx, data)
	if err != nil {
		s.metrics.imported(false)
		s.notify(ports.NotifyError, MsgImportFailed+err.Error())
		s.logger.WarnContext(ctx, "import rejected", slog.Any("error", err))

		return 0, err
	}

	s.metrics.imported(true)
	s.notify(ports.NotifyInfo, MsgImported+" ("+strconv.Itoa(n)+")")
	s.logger.InfoContext(ctx, "quotes imported", slog.Int("count", n))

	return n, nil
}

func (s *QuoteService) importDocument(ctx context.Context, data []byte) (int, error) {
	imported, err := domain.DecodeDocument(data)
	if err != nil {
		return 0, err
	}

	if s.strict {
		for i, q := range imported {
			if err := q.Validate(); err != nil {
				return 0, fmt.Errorf("quote %d: %w", i, err)
			}
		}
	}

	if err := s.append(ctx, imported...); err != nil {
		return 0, err
	}

	return len(imported), nil
}

// ApplyRemote reconciles the collection with a remote record set under
// policy. The read and the write happen in one critical section, so
// mutations made while the remote set was being fetched are not lost.
func (s *QuoteService) ApplyRemote(ctx context.Context, remote []domain.Quote, policy domain.Policy) (domain.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.Outcome{Policy: policy}, domain.ErrClosed
	}

	merged, outcome := domain.Reconcile(s.quotes, remote, policy)
	if !outcome.Changed {
		return outcome, nil
	}

	if err := s.repo.SaveQuotes(ctx, merged); err != nil {
		return domain.Outcome{Policy: policy}, fmt.Errorf("saving reconciled quotes: %w", err)
	}

	s.quotes = merged
	s.metrics.setStoreSize(len(merged))

	return outcome, nil
}

// Close persists the collection one last time. Later mutations fail with
// domain.ErrClosed. Close is idempotent.
func (s *QuoteService) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true

	if err := s.repo.SaveQuotes(ctx, domain.Clone(s.quotes)); err != nil {
		return fmt.Errorf("final save: %w", err)
	}

	s.logger.InfoContext(ctx, "quote store closed", slog.Int("count", len(s.quotes)))

	return nil
}

// append adds quotes and persists the collection. Nothing is kept in
// memory if the write fails.
func (s *QuoteService) append(ctx context.Context, quotes ...domain.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrClosed
	}

	next := make([]domain.Quote, 0, len(s.quotes)+len(quotes))
	next = append(next, s.quotes...)
	next = append(next, quotes...)

	if err := s.repo.SaveQuotes(ctx, next); err != nil {
		return fmt.Errorf("saving quotes: %w", err)
	}

	s.quotes = next
	s.metrics.setStoreSize(len(next))

	return nil
}

// storeFilter makes category the selection in memory and in the repository.
// A failed save restores the previous selection.
func (s *QuoteService) storeFilter(ctx context.Context, category string) error {
	s.filterMu.Lock()
	defer s.filterMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrClosed
	}

	previous := s.selected
	s.selected = category
	s.mu.Unlock()

	if err := s.repo.SaveFilter(ctx, category); err != nil {
		s.mu.Lock()
		s.selected = previous
		s.mu.Unlock()

		return fmt.Errorf("saving filter: %w", err)
	}

	return nil
}

func (s *QuoteService) notify(level, message string) {
	if s.notifier != nil {
		s.notifier.Notify(level, message)
	}
}
