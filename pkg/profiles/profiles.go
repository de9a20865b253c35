// Package profiles provides named deployment profiles: tuning bundles
// for the chunked loader and the operation coordinator. A profile is
// applied on top of configuration defaults; explicit config values
// and flags still win.
//
// Built-in profiles ship embedded; a profiles.yaml file may override
// or extend them per deployment.
package profiles

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/birddex/birddex/pkg/config"
	"gopkg.in/yaml.v3"
)

//go:embed templates/profiles.yaml
var builtinTemplate string

// Profile is one named tuning bundle.
type Profile struct {
	// Name identifies the profile ("default", "constrained", ...).
	Name string `yaml:"name"`

	// Ingest tunes the chunked loader.
	Ingest struct {
		BatchSize  int `yaml:"batch_size"`
		YieldEvery int `yaml:"yield_every"`
	} `yaml:"ingest"`

	// Coordinator tunes the operation coordinator.
	Coordinator struct {
		MaxConcurrent int `yaml:"max_concurrent"`
		QueueLimit    int `yaml:"queue_limit"`
		TimeoutMS     int `yaml:"timeout_ms"`
		DebounceMS    int `yaml:"debounce_ms"`
	} `yaml:"coordinator"`
}

// ProfilesConfig represents a complete profiles.yaml file.
type ProfilesConfig struct {
	Profiles []Profile `yaml:"profiles"`
}

// Builtin returns the embedded profiles.
func Builtin() (*ProfilesConfig, error) {
	return parse([]byte(builtinTemplate))
}

// Load reads profiles from a YAML file.
func Load(path string) (*ProfilesConfig, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles file %s: %w", path, err)
	}
	return parse(bs)
}

func parse(bs []byte) (*ProfilesConfig, error) {
	var res ProfilesConfig
	if err := yaml.Unmarshal(bs, &res); err != nil {
		return nil, fmt.Errorf("failed to parse profiles: %w", err)
	}
	if len(res.Profiles) == 0 {
		return nil, fmt.Errorf("profiles file declares no profiles")
	}
	return &res, nil
}

// Find returns the profile with the given name (case-insensitive).
func (pc *ProfilesConfig) Find(name string) (*Profile, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i := range pc.Profiles {
		if strings.ToLower(pc.Profiles[i].Name) == name {
			return &pc.Profiles[i], true
		}
	}
	return nil, false
}

// ToOptions converts a profile to config options. Zero fields are
// skipped so the profile only overrides what it declares.
func (p *Profile) ToOptions() []config.Option {
	var res []config.Option
	if p.Ingest.BatchSize > 0 {
		res = append(res, config.OptIngestBatchSize(p.Ingest.BatchSize))
	}
	if p.Ingest.YieldEvery > 0 {
		res = append(res, config.OptIngestYieldEvery(p.Ingest.YieldEvery))
	}
	if p.Coordinator.MaxConcurrent > 0 {
		res = append(res, config.OptCoordinatorMaxConcurrent(p.Coordinator.MaxConcurrent))
	}
	if p.Coordinator.QueueLimit > 0 {
		res = append(res, config.OptCoordinatorQueueLimit(p.Coordinator.QueueLimit))
	}
	if p.Coordinator.TimeoutMS > 0 {
		res = append(res, config.OptCoordinatorTimeoutMS(p.Coordinator.TimeoutMS))
	}
	if p.Coordinator.DebounceMS > 0 {
		res = append(res, config.OptCoordinatorDebounceMS(p.Coordinator.DebounceMS))
	}
	return res
}
