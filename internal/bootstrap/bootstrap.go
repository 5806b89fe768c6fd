// Package bootstrap assembles the quote store, sync engine and their
// adapters from configuration. Both the service and the CLI build on it.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/quotekeeper/internal/adapters/clients"
	"github.com/jsamuelsen/quotekeeper/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quotekeeper/internal/adapters/notify"
	"github.com/jsamuelsen/quotekeeper/internal/adapters/storage"
	"github.com/jsamuelsen/quotekeeper/internal/app"
	"github.com/jsamuelsen/quotekeeper/internal/domain"
	"github.com/jsamuelsen/quotekeeper/internal/platform/config"
	"github.com/jsamuelsen/quotekeeper/internal/ports"
	"github.com/jsamuelsen/quotekeeper/internal/scheduler"
)

// Options adjusts how the components are built.
type Options struct {
	// Registerer receives the application metrics. Nil uses a private
	// registry that is never exposed.
	Registerer prometheus.Registerer

	// Remote replaces the HTTP posts client. Used by tests.
	Remote ports.RemoteQuotes

	// Repository replaces the configured store. Used by tests.
	Repository storage.Repository

	// Scheduled starts the cron scheduler when sync is enabled.
	Scheduled bool
}

// Components holds the assembled application.
type Components struct {
	Repository storage.Repository
	Remote     ports.RemoteQuotes
	Board      *notify.Board
	Metrics    *app.Metrics
	Quotes     *app.QuoteService
	Sync       *app.SyncService
	Health     *ports.DefaultHealthRegistry

	// Scheduler is nil unless sync is enabled and Options.Scheduled is set.
	Scheduler *scheduler.SyncScheduler

	cfg    *config.Config
	logger *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// Build wires every component and restores the persisted collection.
// On error, anything already opened is closed.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (_ *Components, err error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Components{cfg: cfg, logger: logger}

	// 1. Storage
	c.Repository = opts.Repository
	if c.Repository == nil {
		c.Repository, err = storage.Open(ctx, storage.Config{
			Driver:    cfg.Store.Driver,
			Path:      cfg.Store.Path,
			QuotesKey: cfg.Store.QuotesKey,
			FilterKey: cfg.Store.FilterKey,
			Logger:    logger,
		})
		if err != nil {
			return nil, fmt.Errorf("opening store: %w", err)
		}
	}

	defer func() {
		if err != nil {
			_ = c.Repository.Close()
		}
	}()

	// 2. Remote server (ACL over the instrumented HTTP client)
	c.Remote = opts.Remote
	if c.Remote == nil {
		c.Remote, err = newPostsClient(cfg, logger)
		if err != nil {
			return nil, err
		}
	}

	// 3. Health checks: the store is required, the remote is optional
	c.Health = ports.NewHealthRegistry()
	if err = c.Health.Register(c.Repository); err != nil {
		return nil, fmt.Errorf("registering store health check: %w", err)
	}

	if checker, ok := c.Remote.(ports.HealthChecker); ok {
		if err = c.Health.Register(checker); err != nil {
			return nil, fmt.Errorf("registering remote health check: %w", err)
		}
	}

	// 4. Notifications and metrics
	c.Board = notify.NewBoard(cfg.Notify.TTL, logger)

	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	c.Metrics, err = app.NewMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("registering metrics: %w", err)
	}

	// 5. Application services
	match, err := domain.ParseCategoryMatch(cfg.Quotes.CategoryMatch)
	if err != nil {
		return nil, err
	}

	policy, err := domain.ParsePolicy(cfg.Sync.Policy)
	if err != nil {
		return nil, err
	}

	c.Quotes = app.NewQuoteService(app.QuoteServiceConfig{
		Repository:   c.Repository,
		Notifier:     c.Board,
		Match:        match,
		StrictImport: cfg.Quotes.StrictImport,
		Metrics:      c.Metrics,
		Logger:       logger,
	})

	if err = c.Quotes.Load(ctx); err != nil {
		return nil, err
	}

	c.Sync = app.NewSyncService(app.SyncServiceConfig{
		Store:       c.Quotes,
		Remote:      c.Remote,
		Notifier:    c.Board,
		Policy:      policy,
		PushOnAdd:   cfg.Sync.PushOnAdd,
		PushTimeout: cfg.Sync.PushTimeout,
		Metrics:     c.Metrics,
		Logger:      logger,
	})

	// 6. Scheduler
	if opts.Scheduled && cfg.Sync.Enabled {
		c.Scheduler, err = scheduler.New(c.Sync, scheduler.Config{
			Schedule: cfg.Sync.Schedule,
			Timeout:  cfg.Sync.Timeout,
			Logger:   logger,
		})
		if err != nil {
			return nil, err
		}
	}

	return c, nil
}

func newPostsClient(cfg *config.Config, logger *slog.Logger) (*acl.PostsClient, error) {
	remote := cfg.Services.Remote

	httpClient, err := clients.New(&clients.Config{
		BaseURL:     remote.BaseURL,
		ServiceName: remote.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating HTTP client: %w", err)
	}

	return acl.NewPostsClient(acl.PostsClientConfig{
		Client:       httpClient,
		ResourcePath: remote.ResourcePath,
		Limit:        remote.Limit,
		Category:     remote.Category,
		Logger:       logger,
	}), nil
}

// Config returns the configuration the components were built from.
func (c *Components) Config() *config.Config {
	return c.cfg
}

// Start runs the startup sync when configured and starts the scheduler.
// A failed startup sync is logged and does not prevent startup.
func (c *Components) Start(ctx context.Context) error {
	if c.cfg.Sync.Enabled && c.cfg.Sync.OnStartup {
		if _, err := c.Sync.Sync(ctx, app.SyncRequest{Trigger: app.TriggerStartup}); err != nil {
			c.logger.WarnContext(ctx, "startup sync failed", slog.Any("error", err))
		}
	}

	if c.Scheduler == nil {
		return nil
	}

	return c.Scheduler.Start(ctx)
}

// Close tears the components down in dependency order: the scheduler
// stops firing, pending pushes drain, the collection is saved one last
// time and the store is closed. Every step runs even if an earlier one
// fails. Later calls return the first result.
func (c *Components) Close(ctx context.Context) error {
	c.closeOnce.Do(func() {
		c.closeErr = c.close(ctx)
	})

	return c.closeErr
}

func (c *Components) close(ctx context.Context) error {
	var errs []error

	if c.Scheduler != nil {
		if err := c.Scheduler.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stopping scheduler: %w", err))
		}
	}

	if err := c.Sync.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("draining pushes: %w", err))
	}

	if err := c.Quotes.Close(ctx); err != nil {
		errs = append(errs, err)
	}

	if err := c.Repository.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing store: %w", err))
	}

	return errors.Join(errs...)
}
