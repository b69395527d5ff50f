// Package config provides configuration management for trellis.
//
// This package has no I/O dependencies (no file operations, no network
// calls). Validation functions may write warnings via slog.
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > trellis.yaml >
// defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with a warning - config remains valid
// - ToOptions() converts persistent fields (those in trellis.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, trellis.yaml, and env vars):
//   - Database: host, port, user, password, database, ssl_mode
//   - Views: plan_file, dump_dir
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use TRELLIS_ prefix with underscores for nesting:
//
//	TRELLIS_DATABASE_HOST=localhost
//	TRELLIS_DATABASE_PORT=5432
//	TRELLIS_LOG_LEVEL=info
//	TRELLIS_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Config represents the complete trellis configuration.
type Config struct {
	// Database contains PostgreSQL connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Views contains settings for plan files and schema dumps.
	Views ViewsConfig `mapstructure:"views" yaml:"views"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for parallel
	// operations (currently the dump fan-out). Defaults to the number
	// of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories
	// reside. It must be set by CLI during init, there is no default
	// value for it.
	HomeDir string
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
}

// ViewsConfig contains settings for view plan files and dumps.
type ViewsConfig struct {
	// PlanFile is the path of the views.yaml plan applied by
	// `trellis apply`. A relative path is resolved against the
	// working directory.
	PlanFile string `mapstructure:"plan_file" yaml:"plan_file"`

	// DumpDir is the directory `trellis dump` writes view definitions
	// and the manifest to.
	DumpDir string `mapstructure:"dump_dir" yaml:"dump_dir"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "trellis",
			SSLMode:  "disable",
		},
		Views: ViewsConfig{
			PlanFile: "views.yaml",
			DumpDir:  "db/views",
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(), // Default to number of CPU threads
	}

	return res
}
