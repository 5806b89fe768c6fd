// Package cli implements the quotectl command line client. Every command
// opens the configured store, runs against the same services the HTTP API
// uses and saves on exit.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quotekeeper/internal/bootstrap"
	"github.com/jsamuelsen/quotekeeper/internal/platform/config"
	"github.com/jsamuelsen/quotekeeper/internal/platform/logging"
	"github.com/jsamuelsen/quotekeeper/internal/ports"
)

// BuildFunc assembles the components a command runs against.
type BuildFunc func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*bootstrap.Components, error)

// BuildInfo identifies the binary.
type BuildInfo struct {
	Version string
	Commit  string
}

// Options configures the root command.
type Options struct {
	Build BuildInfo

	// Components overrides how components are built. Nil builds them from
	// configuration without a scheduler.
	Components BuildFunc
}

// runner carries the global flags into each command.
type runner struct {
	profile   string
	configDir string
	logLevel  string
	build     BuildFunc
}

// NewRootCommand returns the quotectl command tree.
func NewRootCommand(opts Options) *cobra.Command {
	r := &runner{build: opts.Components}
	if r.build == nil {
		r.build = func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*bootstrap.Components, error) {
			return bootstrap.Build(ctx, cfg, logger, bootstrap.Options{})
		}
	}

	defaultProfile := os.Getenv("APP_ENVIRONMENT")
	if defaultProfile == "" {
		defaultProfile = "local"
	}

	root := &cobra.Command{
		Use:           "quotectl",
		Short:         "Manage the local quote collection",
		Long:          "quotectl adds, browses, imports, exports and syncs the quote collection kept by quotekeeper.",
		Version:       fmt.Sprintf("%s (%s)", opts.Build.Version, opts.Build.Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&r.profile, "config-profile", defaultProfile, "Configuration profile to load")
	flags.StringVar(&r.configDir, "config-dir", config.DefaultConfigDir, "Directory holding base.yaml and profile files")
	flags.StringVar(&r.logLevel, "log-level", "warn", "Log level (trace, debug, info, warn, error)")

	root.AddCommand(
		newAddCommand(r),
		newListCommand(r),
		newRandomCommand(r),
		newCategoriesCommand(r),
		newFilterCommand(r),
		newExportCommand(r),
		newImportCommand(r),
		newSyncCommand(r),
	)

	return root
}

// run loads configuration, builds the components, calls fn and tears the
// components down. Background failures that surfaced as error
// notifications, such as a failed push, are printed to stderr once fn has
// succeeded.
func (r *runner) run(cmd *cobra.Command, fn func(ctx context.Context, c *bootstrap.Components) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadFrom(r.configDir, r.profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewWithWriter(&logging.Config{
		Level:   r.logLevel,
		Format:  "pretty",
		Service: cfg.App.Name,
		Version: cfg.App.Version,
	}, cmd.ErrOrStderr())

	components, err := r.build(ctx, cfg, logger)
	if err != nil {
		return err
	}

	runErr := fn(ctx, components)

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := components.Close(shutdownCtx); err != nil && runErr == nil {
		runErr = err
	}

	if runErr == nil {
		printErrors(cmd.ErrOrStderr(), components.Board.Active())
	}

	return runErr
}

func printErrors(w io.Writer, notes []ports.Notification) {
	for _, n := range notes {
		if n.Level == ports.NotifyError {
			fmt.Fprintln(w, "warning:", n.Message)
		}
	}
}
