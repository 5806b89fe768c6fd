// Package scheduler runs the remote sync on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jsamuelsen/quotekeeper/internal/app"
	"github.com/jsamuelsen/quotekeeper/internal/domain"
	"github.com/jsamuelsen/quotekeeper/internal/platform/config"
	"github.com/jsamuelsen/quotekeeper/internal/platform/logging"
)

// DefaultSchedule matches the 30 second sync interval.
const DefaultSchedule = "@every 30s"

// Syncer runs one sync.
type Syncer interface {
	Sync(ctx context.Context, req app.SyncRequest) (domain.Outcome, error)
}

// Config configures the scheduler.
type Config struct {
	// Schedule is a 5-field cron expression or a descriptor such as "@every 30s".
	Schedule string

	// Timeout bounds a single scheduled run. Zero means no limit.
	Timeout time.Duration

	Logger *slog.Logger
}

// SyncScheduler triggers Syncer.Sync on a schedule. Runs that would overlap
// a previous one are skipped.
type SyncScheduler struct {
	syncer   Syncer
	schedule string
	timeout  time.Duration
	logger   *slog.Logger

	mu      sync.RWMutex
	cron    *cron.Cron
	entryID cron.EntryID
	running bool
	cancel  context.CancelFunc
}

// ValidateSchedule reports whether expr can be parsed.
func ValidateSchedule(expr string) error {
	if _, err := config.ScheduleParser.Parse(expr); err != nil {
		return domain.NewValidationErrorWithValue("sync.schedule", err.Error(), expr)
	}

	return nil
}

// New creates a stopped scheduler. Panics if syncer is nil.
func New(syncer Syncer, cfg Config) (*SyncScheduler, error) {
	if syncer == nil {
		panic("SyncScheduler: syncer is required")
	}

	schedule := cfg.Schedule
	if schedule == "" {
		schedule = DefaultSchedule
	}

	if err := ValidateSchedule(schedule); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SyncScheduler{
		syncer:   syncer,
		schedule: schedule,
		timeout:  cfg.Timeout,
		logger:   logger.With(slog.String("component", "scheduler")),
	}, nil
}

// Schedule returns the cron expression in use.
func (s *SyncScheduler) Schedule() string {
	return s.schedule
}

// Start begins firing scheduled syncs. Jobs run with a context derived from
// ctx. Calling Start on a running scheduler does nothing.
func (s *SyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	jobCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	c := cron.New(
		cron.WithParser(config.ScheduleParser),
		cron.WithLogger(cronLogger{s.logger}),
		cron.WithChain(cron.Recover(cronLogger{s.logger}), cron.SkipIfStillRunning(cronLogger{s.logger})),
	)

	entryID, err := c.AddFunc(s.schedule, func() { s.run(jobCtx) })
	if err != nil {
		cancel()
		return fmt.Errorf("scheduling sync job: %w", err)
	}

	c.Start()

	s.cron = c
	s.entryID = entryID
	s.cancel = cancel
	s.running = true

	s.logger.InfoContext(ctx, "sync scheduler started",
		slog.String("schedule", s.schedule),
		slog.Time("next_run", c.Entry(entryID).Next),
	)

	return nil
}

// Stop stops the timer and waits for a running job until ctx is done.
// The job's context is canceled if the wait is cut short.
func (s *SyncScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	s.running = false
	done := s.cron.Stop()
	cancel := s.cancel
	s.cancel = nil

	defer cancel()

	select {
	case <-done.Done():
		s.logger.InfoContext(ctx, "sync scheduler stopped")

		return nil
	case <-ctx.Done():
		s.logger.WarnContext(ctx, "sync scheduler stop timed out, canceling running sync")

		return ctx.Err()
	}
}

// Running reports whether the timer is active.
func (s *SyncScheduler) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.running
}

// NextRun returns the time of the next scheduled sync.
func (s *SyncScheduler) NextRun() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.running {
		return time.Time{}, false
	}

	entry := s.cron.Entry(s.entryID)
	if !entry.Valid() {
		return time.Time{}, false
	}

	return entry.Next, true
}

// RunNow runs a sync immediately on the caller's goroutine.
func (s *SyncScheduler) RunNow(ctx context.Context, trigger app.Trigger) (domain.Outcome, error) {
	return s.syncer.Sync(ctx, app.SyncRequest{Trigger: trigger})
}

func (s *SyncScheduler) run(ctx context.Context) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	ctx = logging.WithContext(ctx, s.logger.With(slog.String("trigger", string(app.TriggerScheduled))))

	_, err := s.syncer.Sync(ctx, app.SyncRequest{Trigger: app.TriggerScheduled})

	switch {
	case err == nil:
	case errors.Is(err, domain.ErrSyncInProgress):
		s.logger.DebugContext(ctx, "scheduled sync skipped, another sync is running")
	case errors.Is(err, domain.ErrClosed), errors.Is(err, context.Canceled):
		s.logger.DebugContext(ctx, "scheduled sync abandoned", slog.Any("error", err))
	default:
		s.logger.WarnContext(ctx, "scheduled sync failed", slog.Any("error", err))
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append([]any{slog.Any("error", err)}, keysAndValues...)...)
}
