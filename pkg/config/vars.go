package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "birddex"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/birddex by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/birddex/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// DataDir returns the directory path for the record store file.
// Returns ~/.local/share/birddex by default.
func DataDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName)
}
