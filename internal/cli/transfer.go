package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quotekeeper/internal/app"
	"github.com/jsamuelsen/quotekeeper/internal/bootstrap"
	"github.com/jsamuelsen/quotekeeper/internal/domain"
)

// stdio names standard input or output in place of a file path.
const stdio = "-"

func newExportCommand(r *runner) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the collection as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.run(cmd, func(ctx context.Context, c *bootstrap.Components) error {
				data, err := c.Quotes.Export(ctx)
				if err != nil {
					return err
				}

				if output == stdio {
					_, err = cmd.OutOrStdout().Write(data)
					return err
				}

				if err := os.WriteFile(output, data, 0o600); err != nil {
					return fmt.Errorf("writing %s: %w", output, err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d quotes to %s\n", c.Quotes.Len(), output)

				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", domain.DocumentFilename, `File to write, or "-" for stdout`)

	return cmd
}

func newImportCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Append quotes from a JSON document",
		Long:  `Append every quote of a JSON document produced by export. Use "-" to read standard input.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			return r.run(cmd, func(ctx context.Context, c *bootstrap.Components) error {
				n, err := c.Quotes.Import(ctx, data)
				if err != nil {
					return fmt.Errorf("%s%w", app.MsgImportFailed, err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%s (%d)\n", app.MsgImported, n)

				return nil
			})
		},
	}
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == stdio {
		return io.ReadAll(stdin)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return data, nil
}
