package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quotekeeper/internal/domain"
	"github.com/jsamuelsen/quotekeeper/internal/platform/telemetry"
	"github.com/jsamuelsen/quotekeeper/internal/ports"
)

// Notification texts of the sync engine.
const (
	MsgSyncFailed   = "Failed to sync with server: "
	MsgSyncUpdated  = "Quotes updated from server."
	MsgPushFailed   = "Failed to post quote to server."
	defaultPushWait = 10 * time.Second
)

// Trigger names what started a sync.
type Trigger string

const (
	TriggerManual    Trigger = "manual"
	TriggerScheduled Trigger = "scheduled"
	TriggerStartup   Trigger = "startup"
)

// SyncRequest describes one sync run.
type SyncRequest struct {
	Trigger Trigger

	// Policy overrides the configured policy when not empty.
	Policy domain.Policy
}

// SyncService reconciles the local store with the remote quote server and
// pushes newly added quotes to it.
type SyncService struct {
	store       *QuoteService
	remote      ports.RemoteQuotes
	notifier    ports.Notifier
	policy      domain.Policy
	pushEnabled bool
	pushTimeout time.Duration
	metrics     *Metrics
	logger      *slog.Logger

	running atomic.Bool

	pushMu sync.Mutex
	closed bool
	pushes sync.WaitGroup
}

// SyncServiceConfig contains the dependencies of the sync service.
type SyncServiceConfig struct {
	Store    *QuoteService
	Remote   ports.RemoteQuotes
	Notifier ports.Notifier

	// Policy is the default reconciliation policy. Empty means merge.
	Policy domain.Policy

	// PushOnAdd registers the service as the store's publisher.
	PushOnAdd bool

	// PushTimeout bounds a single push. Zero uses 10s.
	PushTimeout time.Duration

	Metrics *Metrics
	Logger  *slog.Logger
}

// NewSyncService creates a sync service. Panics if Store or Remote is nil.
func NewSyncService(cfg SyncServiceConfig) *SyncService {
	if cfg.Store == nil {
		panic("SyncService: Store is required")
	}

	if cfg.Remote == nil {
		panic("SyncService: Remote is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	policy := cfg.Policy
	if policy == "" {
		policy = domain.PolicyMerge
	}

	pushTimeout := cfg.PushTimeout
	if pushTimeout <= 0 {
		pushTimeout = defaultPushWait
	}

	s := &SyncService{
		store:       cfg.Store,
		remote:      cfg.Remote,
		notifier:    cfg.Notifier,
		policy:      policy,
		pushEnabled: cfg.PushOnAdd,
		pushTimeout: pushTimeout,
		metrics:     cfg.Metrics,
		logger:      logger.With(slog.String("component", "app.SyncService")),
	}

	if cfg.PushOnAdd {
		cfg.Store.SetPublisher(s)
	}

	return s
}

// Policy returns the configured reconciliation policy.
func (s *SyncService) Policy() domain.Policy {
	return s.policy
}

// InProgress reports whether a sync is running.
func (s *SyncService) InProgress() bool {
	return s.running.Load()
}

// Sync fetches the remote record set and reconciles the store with it.
// Only one sync runs at a time; a concurrent call returns
// domain.ErrSyncInProgress without doing anything.
func (s *SyncService) Sync(ctx context.Context, req SyncRequest) (domain.Outcome, error) {
	if req.Trigger == "" {
		req.Trigger = TriggerManual
	}

	if !s.running.CompareAndSwap(false, true) {
		s.metrics.syncRun(string(req.Trigger), SyncResultSkipped)
		s.logger.DebugContext(ctx, "sync already running", slog.String("trigger", string(req.Trigger)))

		return domain.Outcome{}, domain.ErrSyncInProgress
	}
	defer s.running.Store(false)

	ctx, span := telemetry.Tracer().Start(ctx, "quotes.sync",
		trace.WithAttributes(attribute.String("sync.trigger", string(req.Trigger))))
	defer span.End()

	outcome, err := Execute(ctx, s.logger, s.operation(), req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "sync failed")

		return s.syncFailed(ctx, req, err)
	}

	span.SetAttributes(
		attribute.String("sync.policy", string(outcome.Policy)),
		attribute.Bool("sync.changed", outcome.Changed),
	)

	if !outcome.Changed {
		s.metrics.syncRun(string(req.Trigger), SyncResultUnchanged)

		return outcome, nil
	}

	s.metrics.syncRun(string(req.Trigger), SyncResultChanged)
	s.metrics.syncChanged(outcome.Added, outcome.Updated, outcome.Removed)
	s.notify(ports.NotifyInfo, MsgSyncUpdated)

	s.logger.InfoContext(ctx, "quotes updated from server",
		slog.String("trigger", string(req.Trigger)),
		slog.String("policy", string(outcome.Policy)),
		slog.Int("added", outcome.Added),
		slog.Int("updated", outcome.Updated),
		slog.Int("removed", outcome.Removed),
	)

	return outcome, nil
}

// operation builds the fetch and reconcile steps of a sync run. The fetch
// happens outside the store lock; reading and writing the store happen in
// one ApplyRemote call.
func (s *SyncService) operation() Operation[SyncRequest, []domain.Quote, domain.Outcome] {
	return Operation[SyncRequest, []domain.Quote, domain.Outcome]{
		Name: "sync",
		Validate: func(_ context.Context, req SyncRequest) error {
			if req.Policy == "" {
				return nil
			}

			_, err := domain.ParsePolicy(string(req.Policy))

			return err
		},
		Fetch: func(ctx context.Context, _ SyncRequest) ([]domain.Quote, error) {
			return s.remote.FetchQuotes(ctx)
		},
		Verify: func(_ context.Context, _ SyncRequest, fetched []domain.Quote) ([]domain.Quote, error) {
			if fetched == nil {
				return []domain.Quote{}, nil
			}

			return fetched, nil
		},
		Apply: func(ctx context.Context, req SyncRequest, remote []domain.Quote) (domain.Outcome, error) {
			policy := req.Policy
			if policy == "" {
				policy = s.policy
			}

			return s.store.ApplyRemote(ctx, remote, policy)
		},
	}
}

func (s *SyncService) syncFailed(ctx context.Context, req SyncRequest, err error) (domain.Outcome, error) {
	if errors.Is(err, domain.ErrClosed) {
		s.logger.DebugContext(ctx, "sync result discarded, store closed")

		return domain.Outcome{}, err
	}

	s.metrics.syncRun(string(req.Trigger), SyncResultFailed)

	cause := causeOf(err)

	if req.Trigger == TriggerManual {
		s.notify(ports.NotifyError, MsgSyncFailed+cause.Error())
	}

	s.logger.WarnContext(ctx, "sync failed",
		slog.String("trigger", string(req.Trigger)),
		slog.Any("error", err),
	)

	return domain.Outcome{}, err
}

// Push sends quote to the remote server in the background. It returns false
// when pushing is disabled or the service is shutting down. A failed push is
// reported to the user and not retried.
func (s *SyncService) Push(ctx context.Context, quote domain.Quote) bool {
	if !s.pushEnabled {
		return false
	}

	s.pushMu.Lock()
	defer s.pushMu.Unlock()

	if s.closed {
		return false
	}

	pushCtx := context.WithoutCancel(ctx)

	s.pushes.Go(func() {
		ctx, cancel := context.WithTimeout(pushCtx, s.pushTimeout)
		defer cancel()

		if err := s.remote.PushQuote(ctx, quote); err != nil {
			s.metrics.push(false)
			s.notify(ports.NotifyError, MsgPushFailed)
			s.logger.WarnContext(ctx, "push failed", slog.Any("error", err))

			return
		}

		s.metrics.push(true)
		s.logger.DebugContext(ctx, "quote pushed", slog.String("category", quote.Category))
	})

	return true
}

// Shutdown stops accepting pushes and waits for the running ones until ctx
// is done.
func (s *SyncService) Shutdown(ctx context.Context) error {
	s.pushMu.Lock()
	s.closed = true
	s.pushMu.Unlock()

	done := make(chan struct{})

	go func() {
		s.pushes.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SyncService) notify(level, message string) {
	if s.notifier != nil {
		s.notifier.Notify(level, message)
	}
}
