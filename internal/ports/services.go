// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter for anything that may block
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrUnavailable, ErrMalformed, etc.)
//   - Keep interfaces small and focused
package ports

import (
	"context"
	"time"

	"github.com/jsamuelsen/quotekeeper/internal/domain"
)

// QuoteRepository persists the quote collection and the selected category.
// Both values are stored as whole documents; there is no per-quote storage.
type QuoteRepository interface {
	// LoadQuotes returns the persisted collection.
	// found is false when nothing has been saved yet.
	// A stored value that cannot be decoded yields domain.ErrMalformed.
	LoadQuotes(ctx context.Context) (quotes []domain.Quote, found bool, err error)

	// SaveQuotes replaces the persisted collection.
	SaveQuotes(ctx context.Context, quotes []domain.Quote) error

	// LoadFilter returns the persisted category selection.
	// found is false when nothing has been saved yet.
	LoadFilter(ctx context.Context) (category string, found bool, err error)

	// SaveFilter replaces the persisted category selection.
	SaveFilter(ctx context.Context, category string) error

	// Close releases the underlying storage.
	Close() error
}

// RemoteQuotes is the remote quote server.
type RemoteQuotes interface {
	// FetchQuotes retrieves the remote record set, already mapped to domain quotes.
	// Returns domain.ErrUnavailable when the server cannot be reached,
	// answers with a non-success status, or sends a body that cannot be parsed.
	FetchQuotes(ctx context.Context) ([]domain.Quote, error)

	// PushQuote submits a single quote. The result is informational only.
	PushQuote(ctx context.Context, quote domain.Quote) error
}

// Notification is a transient message shown to the user.
type Notification struct {
	ID        string    `json:"id"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Notification levels.
const (
	NotifyInfo  = "info"
	NotifyError = "error"
)

// Notifier surfaces transient messages to the user.
type Notifier interface {
	// Notify records a message that expires after the notifier's TTL.
	Notify(level, message string)

	// Active returns the messages that have not yet expired, oldest first.
	Active() []Notification
}
