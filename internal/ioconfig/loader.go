// Package ioconfig provides I/O operations for loading configuration
// from files, environment variables, and deployment profiles. This is
// an impure package that handles file system operations.
package ioconfig

import (
	"fmt"
	"os"
	"strings"

	"github.com/birddex/birddex/pkg/config"
	"github.com/birddex/birddex/pkg/profiles"
	"github.com/spf13/viper"
)

// LoadResult contains the loaded configuration and metadata about the
// source.
type LoadResult struct {
	Config     *config.Config
	SourcePath string // Path to config file used, or empty if using defaults
	Source     string // "file", "defaults", or "defaults+env"
}

// Load reads configuration from a YAML file and returns a Config with
// source info. If configPath is empty, it searches the default
// location (~/.config/birddex/config.yaml). A profile named in
// profileName is applied between defaults and file/env values.
func Load(configPath, profileName string) (*LoadResult, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// Precedence: flags > env vars > config file > profile > defaults
	v.SetEnvPrefix("BIRDDEX")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults BEFORE reading config so env vars work with
	// AutomaticEnv() even when no config file exists.
	defaults := config.New()
	if profileName != "" {
		applyProfile(defaults, profileName)
	}
	v.SetDefault("database.path", defaults.Database.Path)
	v.SetDefault("dataset.path", defaults.Dataset.Path)
	v.SetDefault("ingest.batch_size", defaults.Ingest.BatchSize)
	v.SetDefault("ingest.yield_every", defaults.Ingest.YieldEvery)
	v.SetDefault("coordinator.max_concurrent", defaults.Coordinator.MaxConcurrent)
	v.SetDefault("coordinator.queue_limit", defaults.Coordinator.QueueLimit)
	v.SetDefault("coordinator.timeout_ms", defaults.Coordinator.TimeoutMS)
	v.SetDefault("coordinator.debounce_ms", defaults.Coordinator.DebounceMS)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		defaultPath, err := defaultConfigPath()
		if err == nil {
			if _, statErr := os.Stat(defaultPath); statErr == nil {
				v.SetConfigFile(defaultPath)
			}
		}
	}

	configFileRead := false
	usedConfigPath := ""

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if configPath != "" {
				return nil, fmt.Errorf("config file not found: %s", configPath)
			}
		} else if configPath != "" || v.ConfigFileUsed() != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		configFileRead = true
		usedConfigPath = v.ConfigFileUsed()
	}

	var cfg config.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Re-validate through the option pipeline; invalid values warn
	// and fall back to defaults.
	res := config.New()
	if profileName != "" {
		applyProfile(res, profileName)
		res.Profile = profileName
	}
	res.Update(cfg.ToOptions())

	source := "defaults"
	if configFileRead {
		source = "file"
	} else if hasEnvVars() {
		source = "defaults+env"
	}

	return &LoadResult{
		Config:     res,
		SourcePath: usedConfigPath,
		Source:     source,
	}, nil
}

// applyProfile layers a named deployment profile over the config.
// Unknown profile names warn via the embedded catalog lookup and
// leave the config unchanged.
func applyProfile(cfg *config.Config, name string) {
	catalog, err := profiles.Builtin()
	if err != nil {
		fmt.Fprintf(os.Stderr,
			"Warning: cannot load built-in profiles: %v\n", err)
		return
	}
	profile, ok := catalog.Find(name)
	if !ok {
		fmt.Fprintf(os.Stderr,
			"Warning: unknown deployment profile %q, using defaults\n", name)
		return
	}
	cfg.Update(profile.ToOptions())
}

func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return config.ConfigFilePath(home), nil
}

// hasEnvVars reports whether any BIRDDEX_* variable is set.
func hasEnvVars() bool {
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "BIRDDEX_") {
			return true
		}
	}
	return false
}
