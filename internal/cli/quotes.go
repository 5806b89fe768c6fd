package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quotekeeper/internal/bootstrap"
	"github.com/jsamuelsen/quotekeeper/internal/domain"
)

func newAddCommand(r *runner) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a quote",
		Long:  "Add a quote to the collection. When pushing is enabled the quote is also posted to the remote server.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context, c *bootstrap.Components) error {
				quote, err := c.Quotes.AddQuote(ctx, strings.Join(args, " "), category)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Added to %s: %s\n", quote.Category, quote.Text)

				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Category of the quote (required)")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func newListCommand(r *runner) *cobra.Command {
	var (
		category string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List quotes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.run(cmd, func(_ context.Context, c *bootstrap.Components) error {
				match, err := domain.ParseCategoryMatch(c.Config().Quotes.CategoryMatch)
				if err != nil {
					return err
				}

				quotes := domain.Filter(c.Quotes.Quotes(), category, match)

				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")

					return enc.Encode(quotes)
				}

				return printQuotes(cmd.OutOrStdout(), quotes)
			})
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", domain.AllCategories, "Only list quotes in this category")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")

	return cmd
}

func printQuotes(w io.Writer, quotes []domain.Quote) error {
	if len(quotes) == 0 {
		fmt.Fprintln(w, domain.NoQuotesMessage)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCATEGORY\tTEXT\tID")

	for i, q := range quotes {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, q.Category, q.Text, q.ID)
	}

	return tw.Flush()
}

func newRandomCommand(r *runner) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "random",
		Short: "Show a random quote",
		Long:  "Show a random quote from a category, or from the selected filter when no category is given.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.run(cmd, func(ctx context.Context, c *bootstrap.Components) error {
				quote, err := c.Quotes.RandomQuote(ctx, category)

				return printSelection(cmd.OutOrStdout(), quote, err)
			})
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Category to pick from")

	return cmd
}

// printSelection renders a random pick. An empty category is not an error.
func printSelection(w io.Writer, quote domain.Quote, err error) error {
	if errors.Is(err, domain.ErrNoQuotes) {
		fmt.Fprintln(w, domain.NoQuotesMessage)
		return nil
	}

	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%q\n  (%s)\n", quote.Text, quote.Category)

	return nil
}

func newCategoriesCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories",
		Long:  "List the categories offered for filtering. The selected one is marked with *.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.run(cmd, func(_ context.Context, c *bootstrap.Components) error {
				selected := c.Quotes.SelectedCategory()

				for _, category := range c.Quotes.Categories() {
					marker := " "
					if category == selected {
						marker = "*"
					}

					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, category)
				}

				return nil
			})
		},
	}
}

func newFilterCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "filter [category]",
		Short: "Show or change the selected category",
		Long:  "Without an argument, print the selected category. With one, select it and show a quote from it.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, func(ctx context.Context, c *bootstrap.Components) error {
				if len(args) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), c.Quotes.SelectedCategory())
					return nil
				}

				quote, err := c.Quotes.SetFilter(ctx, args[0])
				if err != nil && !errors.Is(err, domain.ErrNoQuotes) {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Selected %s\n", args[0])

				return printSelection(cmd.OutOrStdout(), quote, err)
			})
		},
	}
}
