package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quotekeeper/internal/app"
	"github.com/jsamuelsen/quotekeeper/internal/bootstrap"
	"github.com/jsamuelsen/quotekeeper/internal/domain"
)

func newSyncCommand(r *runner) *cobra.Command {
	var policy string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync with the remote server",
		Long:  "Fetch the remote collection and apply it with the configured policy, or with --policy.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.run(cmd, func(ctx context.Context, c *bootstrap.Components) error {
				outcome, err := c.Sync.Sync(ctx, app.SyncRequest{
					Trigger: app.TriggerManual,
					Policy:  domain.Policy(policy),
				})
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if !outcome.Changed {
					fmt.Fprintf(out, "Already up to date (%s).\n", outcome.Policy)
					return nil
				}

				fmt.Fprintf(out, "%s %d added, %d updated, %d removed (%s).\n",
					app.MsgSyncUpdated, outcome.Added, outcome.Updated, outcome.Removed, outcome.Policy)

				return nil
			})
		},
	}

	cmd.Flags().StringVar(&policy, "policy", "", "Override the configured policy (merge or replace)")

	return cmd
}
