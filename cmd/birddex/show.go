package main

import (
	"context"
	"fmt"

	"github.com/birddex/birddex/pkg/coord"
	"github.com/birddex/birddex/pkg/species"
	"github.com/spf13/cobra"
)

func getShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <species_code>",
		Short: "Fetch one record by species code",
		Long: `Show the full record for a species code.

Examples:
  birddex show bkcchi
  birddex show grycat`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	code := args[0]

	sub, err := newSubsystem(ctx)
	if err != nil {
		return err
	}
	defer sub.close()

	res, err := sub.coordinator.Schedule(ctx, "cli-show", coord.High, false,
		func(ctx context.Context) (any, error) {
			return sub.querier.GetByKey(ctx, code)
		})
	if err != nil {
		return err
	}

	rec, _ := res.(*species.Record)
	if rec == nil {
		fmt.Printf("No record for species code %q.\n", code)
		return nil
	}

	fmt.Printf("Species code:     %s\n", rec.SpeciesCode)
	fmt.Printf("Primary name:     %s\n", rec.PrimaryName)
	fmt.Printf("Scientific name:  %s\n", rec.ScientificName)
	fmt.Printf("Category:         %s\n", rec.Category)
	fmt.Printf("Family:           %s\n", rec.Family)
	fmt.Printf("Order:            %s\n", rec.TaxonOrder)
	if rec.RangeDescription != "" {
		fmt.Printf("Range:            %s\n", rec.RangeDescription)
	}
	if rec.Extinct {
		year := rec.ExtinctYear
		if year == "" {
			year = "unknown year"
		}
		fmt.Printf("Extinct:          yes (%s)\n", year)
	}
	fmt.Printf("Logged:           %v\n", rec.Logged)
	fmt.Printf("Dataset version:  %s\n", rec.DatasetVersion)
	return nil
}
