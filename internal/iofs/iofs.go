// Package iofs prepares the file system layout trellis expects: the
// config, cache, and log directories plus the default trellis.yaml
// config and views.yaml plan, both embedded in the binary.
package iofs

import (
	_ "embed"
	"os"

	"github.com/trellisdb/trellis/pkg/config"
)

//go:embed trellis.yaml
var ConfigYAML string

//go:embed views.yaml
var PlanYAML string

// EnsureDirs creates the config, cache, and log directories under
// homeDir if they do not exist yet.
func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.CacheDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return NewCreateDirError(dir, err)
	}

	return nil
}

// EnsureConfigFile writes the embedded trellis.yaml template to the
// config directory. An existing config file is left alone.
func EnsureConfigFile(homeDir string) error {
	configPath := config.ConfigFilePath(homeDir)

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	if err := os.WriteFile(configPath, []byte(ConfigYAML), 0644); err != nil {
		return NewCopyFileError(configPath, err)
	}

	return nil
}

// EnsurePlanFile writes the embedded views.yaml template to the config
// directory. An existing plan file is left alone.
func EnsurePlanFile(homeDir string) error {
	planPath := config.PlanFilePath(homeDir)

	if _, err := os.Stat(planPath); err == nil {
		return nil
	}

	if err := os.WriteFile(planPath, []byte(PlanYAML), 0644); err != nil {
		return NewCopyFileError(planPath, err)
	}

	return nil
}
