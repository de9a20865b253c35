package main

import (
	"context"
	"fmt"

	"github.com/birddex/birddex/pkg/birddex"
	"github.com/birddex/birddex/pkg/coord"
	"github.com/birddex/birddex/pkg/species"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	listFilter   string
	listSort     string
	listDesc     bool
	listPage     int
	listPageSize int
	listCategory string
)

func getListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Paged listing of species records",
		Long: `List species records page by page.

Records already present in the user log order first; within each
group the requested sort key and direction apply.

Examples:
  birddex list
  birddex list --filter warbler --sort scientific_name
  birddex list --category "group (polytypic)" --page 2`,
		RunE: runList,
	}

	cmd.Flags().StringVar(&listFilter, "filter", "",
		"substring match on primary/scientific name")
	cmd.Flags().StringVar(&listSort, "sort", "primary_name",
		"sort key (primary_name, scientific_name, species_code, category, family, order)")
	cmd.Flags().BoolVar(&listDesc, "desc", false,
		"sort descending")
	cmd.Flags().IntVar(&listPage, "page", 1, "page number (1-based)")
	cmd.Flags().IntVar(&listPageSize, "size", 20, "page size")
	cmd.Flags().StringVar(&listCategory, "category", species.CategoryAll,
		"category filter")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	sub, err := newSubsystem(ctx)
	if err != nil {
		return err
	}
	defer sub.close()

	query := birddex.ListQuery{
		Filter:     listFilter,
		SortKey:    listSort,
		Ascending:  !listDesc,
		PageSize:   listPageSize,
		PageNumber: listPage,
		Category:   listCategory,
	}

	res, err := sub.coordinator.Schedule(ctx, "cli-list", coord.Medium, false,
		func(ctx context.Context) (any, error) {
			return sub.querier.PagedList(ctx, query)
		})
	if err != nil {
		return err
	}
	records := res.([]species.Record)

	countRes, err := sub.coordinator.Schedule(ctx, "cli-count", coord.Low, false,
		func(ctx context.Context) (any, error) {
			return sub.querier.RowCount(ctx, listFilter, listCategory)
		})
	if err != nil {
		return err
	}
	total := countRes.(int)

	printRecords(records)
	fmt.Printf("\nPage %d (%d of %s records)\n",
		listPage, len(records), humanize.Comma(int64(total)))
	return nil
}

func printRecords(records []species.Record) {
	if len(records) == 0 {
		fmt.Println("No records found.")
		return
	}
	for i := range records {
		rec := &records[i]
		logged := " "
		if rec.Logged {
			logged = "*"
		}
		fmt.Printf("%s %-10s %-35s %s\n",
			logged, rec.SpeciesCode, rec.PrimaryName, rec.ScientificName)
	}
}
