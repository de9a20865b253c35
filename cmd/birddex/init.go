package main

import (
	"context"
	"time"

	"github.com/birddex/birddex/pkg/ingest"
	"github.com/birddex/birddex/pkg/species"
	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/spf13/cobra"
)

var (
	retryInit bool
)

func getInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Ingest the reference dataset into the local dictionary",
		Long: `Run the one-time ingestion pipeline.

This command:
  1. Opens (or creates) the SQLite record store
  2. Skips ingestion when the stored dataset version already matches
  3. Otherwise drops and recreates the species table, stream-parses
     the dataset, commits rows in transactional batches, builds
     case-insensitive secondary indexes, and stamps the version

Ingestion is all-or-nothing: any failure aborts the attempt and is
retryable in full with --retry.

Examples:
  birddex init
  birddex init --dataset taxonomy.csv
  birddex init --retry
  birddex init --profile constrained`,
		RunE: runInit,
	}

	cmd.Flags().BoolVar(&retryInit, "retry", false,
		"reset state and re-attempt ingestion after a failure")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	sub, err := newSubsystem(ctx)
	if err != nil {
		return err
	}
	defer sub.close()

	gn.Info("Ingesting species dictionary <em>%s</em>",
		species.DatasetVersion)

	bar := pb.Full.Start(100)
	bar.Set("prefix", "ingest ")
	bar.Set(pb.CleanOnFinish, true)

	unsubscribe := sub.pipeline.Subscribe(func(s ingest.State) {
		bar.SetCurrent(int64(s.Progress))
	})
	defer unsubscribe()

	startTime := time.Now()
	if retryInit {
		err = sub.pipeline.Retry(ctx)
	} else {
		err = sub.pipeline.Initialize(ctx)
	}
	bar.Finish()
	if err != nil {
		gn.Warn("Ingestion failed; run <em>birddex init --retry</em> to re-attempt")
		return err
	}

	state := sub.pipeline.State()
	gn.Message(
		"<em>Dictionary ready: %s records in %s</em>",
		humanize.Comma(int64(state.LoadedRecords)),
		gnfmt.TimeString(time.Since(startTime).Seconds()),
	)
	return nil
}
