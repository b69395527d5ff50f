package config

import (
	"path/filepath"
)

// AppName is used in generating file system paths.
var AppName = "trellis"

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/trellis by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/trellis by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/trellis/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the trellis.yaml file.
// Returns ~/.config/trellis/trellis.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "trellis.yaml")
}

// PlanFilePath returns the full path to the default views.yaml plan.
// Returns ~/.config/trellis/views.yaml by default.
func PlanFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "views.yaml")
}
