package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabasePath sets the SQLite database file location.
func OptDatabasePath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Path", s) {
			c.Database.Path = s
		}
	}
}

// OptDatasetPath sets the reference dataset file location.
func OptDatasetPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Dataset Path", s) {
			c.Dataset.Path = s
		}
	}
}

// OptIngestBatchSize sets the number of rows committed per
// transaction by the chunked loader.
func OptIngestBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Ingest Batch Size", i) {
			c.Ingest.BatchSize = i
		}
	}
}

// OptIngestYieldEvery sets how many batches run between scheduler
// yields during ingestion.
func OptIngestYieldEvery(i int) Option {
	return func(c *Config) {
		if isValidInt("Ingest Yield Every", i) {
			c.Ingest.YieldEvery = i
		}
	}
}

// OptCoordinatorMaxConcurrent bounds concurrently active operations.
func OptCoordinatorMaxConcurrent(i int) Option {
	return func(c *Config) {
		if isValidInt("Coordinator Max Concurrent", i) {
			c.Coordinator.MaxConcurrent = i
		}
	}
}

// OptCoordinatorQueueLimit bounds queued operations.
func OptCoordinatorQueueLimit(i int) Option {
	return func(c *Config) {
		if isValidInt("Coordinator Queue Limit", i) {
			c.Coordinator.QueueLimit = i
		}
	}
}

// OptCoordinatorTimeoutMS sets the per-operation settle deadline in
// milliseconds.
func OptCoordinatorTimeoutMS(i int) Option {
	return func(c *Config) {
		if isValidInt("Coordinator Timeout", i) {
			c.Coordinator.TimeoutMS = i
		}
	}
}

// OptCoordinatorDebounceMS sets the debounce window in milliseconds.
func OptCoordinatorDebounceMS(i int) Option {
	return func(c *Config) {
		if isValidInt("Coordinator Debounce", i) {
			c.Coordinator.DebounceMS = i
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the logging format.
// Valid values: "json", "text".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptProfile names the deployment profile to apply.
func OptProfile(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidString("Profile", s) {
			c.Profile = s
		}
	}
}
