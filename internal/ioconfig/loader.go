// Package ioconfig provides I/O operations for loading configuration
// from files, environment variables, and flags. This is an impure
// package that handles file system and flag operations.
package ioconfig

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/trellisdb/trellis/pkg/config"
)

// LoadResult contains the loaded configuration and metadata about the source.
type LoadResult struct {
	Config     *config.Config
	SourcePath string // Path to config file used, or empty if using defaults
	Source     string // "file", "defaults", or "defaults+env"
}

// Load reads configuration from a YAML file and returns a Config with
// source info. If configPath is empty, it searches default locations:
//   - ./trellis.yaml
//   - ~/.config/trellis/trellis.yaml
//
// Missing default locations fall back to defaults and environment
// variables. An explicit path that cannot be read, or a malformed
// file anywhere, is an error.
func Load(configPath string) (*LoadResult, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	initEnvVars(v)

	// Set defaults BEFORE reading config. Even if a config file
	// exists, defaults tell viper which keys to check for env vars.
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else if path, ok := findDefaultConfig(); ok {
		v.SetConfigFile(path)
	}

	configFileRead := false
	usedConfigPath := ""

	if err := v.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound || configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file in default locations: defaults + env vars.
	} else {
		configFileRead = true
		usedConfigPath = v.ConfigFileUsed()
	}

	var loaded config.Config
	if err := v.Unmarshal(&loaded); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Apply loaded values onto defaults through options, so invalid
	// values are rejected with a warning instead of replacing a valid
	// default.
	cfg := config.New()
	cfg.Update(loaded.ToOptions())

	source := "defaults"
	if configFileRead {
		source = "file"
	} else if hasEnvVars() {
		source = "defaults+env"
	}

	return &LoadResult{
		Config:     cfg,
		SourcePath: usedConfigPath,
		Source:     source,
	}, nil
}

// findDefaultConfig returns the first existing file among the default
// config locations.
func findDefaultConfig() (string, bool) {
	candidates := []string{"trellis.yaml"}
	if homeDir, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, config.ConfigFilePath(homeDir))
	}

	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

func setDefaults(v *viper.Viper) {
	defaults := config.New()
	v.SetDefault("database.host", defaults.Database.Host)
	v.SetDefault("database.port", defaults.Database.Port)
	v.SetDefault("database.user", defaults.Database.User)
	v.SetDefault("database.password", defaults.Database.Password)
	v.SetDefault("database.database", defaults.Database.Database)
	v.SetDefault("database.ssl_mode", defaults.Database.SSLMode)
	v.SetDefault("views.plan_file", defaults.Views.PlanFile)
	v.SetDefault("views.dump_dir", defaults.Views.DumpDir)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("log.destination", defaults.Log.Destination)
	v.SetDefault("jobs_number", defaults.JobsNumber)
}

func initEnvVars(v *viper.Viper) {
	// Environment variables are bound one by one so the allowed set
	// stays visible. They match the fields of config.ToOptions(), the
	// persistent configuration that can live in trellis.yaml.
	v.SetEnvPrefix("TRELLIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Database configuration
	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.database")
	v.BindEnv("database.ssl_mode")

	// Views configuration
	v.BindEnv("views.plan_file")
	v.BindEnv("views.dump_dir")

	// Log configuration
	v.BindEnv("log.level")
	v.BindEnv("log.format")
	v.BindEnv("log.destination")

	// General configuration
	v.BindEnv("jobs_number")

	v.AutomaticEnv()
}

// hasEnvVars checks if any TRELLIS_* environment variables are set.
func hasEnvVars() bool {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "TRELLIS_") {
			return true
		}
	}
	return false
}

// BindFlags applies database connection flags from cmd to cfg.
// CLI flags take precedence over config file and environment values.
func BindFlags(cmd *cobra.Command, cfg *config.Config) (*config.Config, error) {
	v := viper.New()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	var opts []config.Option
	if v.IsSet("host") {
		opts = append(opts, config.OptDatabaseHost(v.GetString("host")))
	}
	if v.IsSet("port") {
		opts = append(opts, config.OptDatabasePort(v.GetInt("port")))
	}
	if v.IsSet("user") {
		opts = append(opts, config.OptDatabaseUser(v.GetString("user")))
	}
	if v.IsSet("password") {
		opts = append(opts, config.OptDatabasePassword(v.GetString("password")))
	}
	if v.IsSet("database") {
		opts = append(opts, config.OptDatabaseDatabase(v.GetString("database")))
	}
	if v.IsSet("ssl-mode") {
		opts = append(opts, config.OptDatabaseSSLMode(v.GetString("ssl-mode")))
	}
	cfg.Update(opts)

	return cfg, nil
}
