// Package main is the entry point for the quotectl command line client.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jsamuelsen/quotekeeper/internal/cli"
)

// Build-time variables, injected via ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	root := cli.NewRootCommand(cli.Options{
		Build: cli.BuildInfo{Version: Version, Commit: Commit},
	})

	err := root.ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
