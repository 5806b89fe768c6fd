// Package notify keeps transient user notifications in memory.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen/quotekeeper/internal/ports"
)

const (
	// DefaultTTL is how long a notification stays visible.
	DefaultTTL = 4 * time.Second

	// maxEntries bounds the board when nobody reads it.
	maxEntries = 50
)

// Board implements ports.Notifier. Each message expires after the TTL and
// is logged when it is posted.
type Board struct {
	mu      sync.Mutex
	entries []ports.Notification
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures a Board.
type Option func(*Board)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Board) {
		b.now = now
	}
}

// NewBoard creates a board. A non-positive ttl uses DefaultTTL.
func NewBoard(ttl time.Duration, logger *slog.Logger, opts ...Option) *Board {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	if logger == nil {
		logger = slog.Default()
	}

	b := &Board{
		ttl:    ttl,
		now:    time.Now,
		logger: logger.With(slog.String("component", "notify.Board")),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Notify implements ports.Notifier.
func (b *Board) Notify(level, message string) {
	now := b.now()

	n := ports.Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(b.ttl),
	}

	b.mu.Lock()
	b.prune(now)
	b.entries = append(b.entries, n)

	if over := len(b.entries) - maxEntries; over > 0 {
		b.entries = append(b.entries[:0:0], b.entries[over:]...)
	}
	b.mu.Unlock()

	logLevel := slog.LevelInfo
	if level == ports.NotifyError {
		logLevel = slog.LevelWarn
	}

	b.logger.Log(context.Background(), logLevel, "notification",
		slog.String("level", level),
		slog.String("message", message),
	)
}

// Active implements ports.Notifier.
func (b *Board) Active() []ports.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.prune(b.now())

	out := make([]ports.Notification, len(b.entries))
	copy(out, b.entries)

	return out
}

// prune drops expired entries. Entries are in creation order.
func (b *Board) prune(now time.Time) {
	i := 0
	for i < len(b.entries) && !now.Before(b.entries[i].ExpiresAt) {
		i++
	}

	if i > 0 {
		b.entries = append(b.entries[:0:0], b.entries[i:]...)
	}
}
