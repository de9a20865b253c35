package main

import (
	"context"

	"github.com/birddex/birddex/pkg/coord"
	"github.com/birddex/birddex/pkg/species"
	"github.com/spf13/cobra"
)

var (
	searchLimit    int
	searchCategory string
)

func getSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Free-text lookup across localized name columns",
		Long: `Search species by name.

The term matches case-insensitively against the primary name, the
scientific name, and every localized name column. Records already in
the user log order first.

Examples:
  birddex search "chickadee"
  birddex search "Poecile" --limit 5
  birddex search "mésange" --category species`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchLimit, "limit", 20, "maximum matches")
	cmd.Flags().StringVar(&searchCategory, "category", species.CategoryAll,
		"category filter")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	term := args[0]

	sub, err := newSubsystem(ctx)
	if err != nil {
		return err
	}
	defer sub.close()

	// Debounce is for interactive hosts issuing a search per keystroke;
	// a one-shot CLI call skips it rather than wait out the window.
	res, err := sub.coordinator.Schedule(ctx, "cli-search", coord.Medium, false,
		func(ctx context.Context) (any, error) {
			return sub.querier.SearchByName(ctx, term, searchLimit, searchCategory)
		})
	if err != nil {
		return err
	}

	printRecords(res.([]species.Record))
	return nil
}
