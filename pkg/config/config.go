// Package config provides configuration management for birddex.
//
// This package has no I/O dependencies (no file operations, no
// network calls). Validation functions may write user-facing warnings
// via gn.Warn().
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml
// > deployment profile > defaults.
//
// Environment variables use the BIRDDEX_ prefix with underscores for
// nesting:
//
//	BIRDDEX_DATABASE_PATH=/data/birddex.db
//	BIRDDEX_INGEST_BATCH_SIZE=500
//	BIRDDEX_LOG_LEVEL=debug
package config

import (
	"time"

	"github.com/birddex/birddex/pkg/coord"
)

// Config represents the complete birddex configuration.
type Config struct {
	// Database contains record store settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Dataset contains reference dataset settings.
	Dataset DatasetConfig `mapstructure:"dataset" yaml:"dataset"`

	// Ingest tunes the chunked loader.
	Ingest IngestConfig `mapstructure:"ingest" yaml:"ingest"`

	// Coordinator tunes the operation coordinator.
	Coordinator CoordinatorConfig `mapstructure:"coordinator" yaml:"coordinator"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// Profile names the deployment profile applied on top of the
	// defaults ("default", "constrained"). Runtime-only, set by CLI.
	Profile string
}

// DatabaseConfig contains record store settings.
type DatabaseConfig struct {
	// Path is the SQLite database file location.
	Path string `mapstructure:"path" yaml:"path"`
}

// DatasetConfig contains reference dataset settings.
type DatasetConfig struct {
	// Path is the delimited flat dataset file with a header row.
	Path string `mapstructure:"path" yaml:"path"`
}

// IngestConfig tunes the chunked loader. Smaller batches and more
// frequent yields suit resource-constrained targets.
type IngestConfig struct {
	// BatchSize is the number of rows committed per transaction.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`

	// YieldEvery is how many batches run between scheduler yields.
	YieldEvery int `mapstructure:"yield_every" yaml:"yield_every"`
}

// CoordinatorConfig tunes the operation coordinator. Durations are
// expressed in milliseconds to stay config-file friendly.
type CoordinatorConfig struct {
	// MaxConcurrent bounds concurrently active operations.
	MaxConcurrent int `mapstructure:"max_concurrent" yaml:"max_concurrent"`

	// QueueLimit bounds queued operations.
	QueueLimit int `mapstructure:"queue_limit" yaml:"queue_limit"`

	// TimeoutMS is the per-operation settle deadline.
	TimeoutMS int `mapstructure:"timeout_ms" yaml:"timeout_ms"`

	// DebounceMS is the debounce window for same-id operations.
	DebounceMS int `mapstructure:"debounce_ms" yaml:"debounce_ms"`
}

// Options converts coordinator settings to coord.Options.
func (c CoordinatorConfig) Options() coord.Options {
	return coord.Options{
		MaxConcurrent:  c.MaxConcurrent,
		QueueLimit:     c.QueueLimit,
		Timeout:        time.Duration(c.TimeoutMS) * time.Millisecond,
		DebounceWindow: time.Duration(c.DebounceMS) * time.Millisecond,
	}.Normalize()
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format" yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level" yaml:"level"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Path: "birddex.db",
		},
		Dataset: DatasetConfig{
			Path: "taxonomy.csv",
		},
		Ingest: IngestConfig{
			BatchSize:  500,
			YieldEvery: 4,
		},
		Coordinator: CoordinatorConfig{
			MaxConcurrent: coord.DefaultMaxConcurrent,
			QueueLimit:    coord.DefaultQueueLimit,
			TimeoutMS:     10_000,
			DebounceMS:    250,
		},
		Log: LogConfig{
			Format: "text",
			Level:  "info",
		},
	}
	return res
}
