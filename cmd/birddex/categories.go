package main

import (
	"context"
	"fmt"

	"github.com/birddex/birddex/pkg/coord"
	"github.com/birddex/birddex/pkg/species"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func getCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Distinct categories with record counts",
		RunE:  runCategories,
	}

	return cmd
}

func runCategories(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	sub, err := newSubsystem(ctx)
	if err != nil {
		return err
	}
	defer sub.close()

	res, err := sub.coordinator.Schedule(ctx, "cli-categories", coord.Low, false,
		func(ctx context.Context) (any, error) {
			return sub.querier.AvailableCategories(ctx)
		})
	if err != nil {
		return err
	}

	for _, cc := range res.([]species.CategoryCount) {
		fmt.Printf("%-20s %s\n", cc.Category, humanize.Comma(int64(cc.Count)))
	}
	return nil
}
