package main

import (
	"fmt"
	"log/slog"

	"github.com/birddex/birddex/internal/ioconfig"
	pkgconfig "github.com/birddex/birddex/pkg/config"
	"github.com/birddex/birddex/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	profile string
	cfg     *pkgconfig.Config
)

func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "birddex",
		Short: "birddex manages the local species dictionary",
		Long: `birddex turns a flat species reference dataset into an indexed,
queryable local SQLite store exactly once, and arbitrates concurrent,
prioritized read access to it.

Commands:
  - init: run the one-time ingestion pipeline (idempotent)
  - list: paged listing of species records
  - search: free-text lookup across localized name columns
  - show: fetch one record by species code
  - categories: distinct categories with record counts

Configuration precedence (highest to lowest):
  1. CLI flags (--db, --dataset, etc.)
  2. Environment variables (BIRDDEX_*)
  3. Config file (~/.config/birddex/config.yaml)
  4. Deployment profile (--profile default|constrained)
  5. Built-in defaults

Environment Variables:
  Nested fields use underscores (database.path → BIRDDEX_DATABASE_PATH).

  Examples:
    BIRDDEX_DATABASE_PATH           SQLite database file
    BIRDDEX_DATASET_PATH            Reference dataset file
    BIRDDEX_INGEST_BATCH_SIZE       Rows per ingestion transaction
    BIRDDEX_LOG_LEVEL               Log level (debug/info/warn/error)

  See 'go doc github.com/birddex/birddex/pkg/config' for complete list.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			result, err := ioconfig.Load(cfgFile, profile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			cfg = result.Config

			applyFlagOverrides(cmd)

			slog.SetDefault(logger.New(&cfg.Log))

			if result.Source == "file" {
				slog.Debug("Using config file", "path", result.SourcePath)
			}
			return nil
		},
	}

	// Persistent flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ~/.config/birddex/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "",
		"deployment profile (default|constrained)")
	rootCmd.PersistentFlags().String("db", "",
		"SQLite database file (overrides config)")
	rootCmd.PersistentFlags().String("dataset", "",
		"reference dataset file (overrides config)")

	rootCmd.Flags().BoolP("version", "V", false, "version for birddex")

	// Add subcommands
	rootCmd.AddCommand(getInitCmd())
	rootCmd.AddCommand(getListCmd())
	rootCmd.AddCommand(getSearchCmd())
	rootCmd.AddCommand(getShowCmd())
	rootCmd.AddCommand(getCategoriesCmd())

	return rootCmd
}

// applyFlagOverrides applies persistent flag values on top of the
// loaded configuration. Flags have the highest precedence.
func applyFlagOverrides(cmd *cobra.Command) {
	var opts []pkgconfig.Option
	if s, _ := cmd.Flags().GetString("db"); s != "" {
		opts = append(opts, pkgconfig.OptDatabasePath(s))
	}
	if s, _ := cmd.Flags().GetString("dataset"); s != "" {
		opts = append(opts, pkgconfig.OptDatasetPath(s))
	}
	cfg.Update(opts)
}

func getConfig() *pkgconfig.Config {
	return cfg
}
