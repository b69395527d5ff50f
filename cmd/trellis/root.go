package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/trellisdb/trellis/internal/ioconfig"
	"github.com/trellisdb/trellis/internal/iofs"
	"github.com/trellisdb/trellis/internal/iologger"
	"github.com/trellisdb/trellis/pkg/config"
)

var (
	// cfgFile is the path of an explicit config file given with
	// --config. Empty means search ./trellis.yaml, then
	// ~/.config/trellis/trellis.yaml, then fall back to defaults.
	cfgFile string

	// cfg is the effective configuration assembled by the root
	// command before any subcommand runs.
	cfg *config.Config
)

// getRootCmd returns the root command for the trellis CLI.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "trellis",
		Short: "manage PostgreSQL views and materialized views",
		Long: `trellis manages the lifecycle of PostgreSQL views and materialized views.

Replacing a view with DROP and CREATE silently destroys everything
built on top of it: dependent views, their indexes, their triggers.
trellis snapshots those objects before the drop and recreates them
afterward in dependency order, so a definition change does not cost
you the rest of the schema.

Common workflows:

  trellis init                          create config and plan templates
  trellis update NAME --definition-file f.sql --cascade
  trellis refresh NAME --cascade        refresh a matview and dependents
  trellis apply --plan views.yaml       apply a declarative plan
  trellis dump --dir db/views           export views as .sql plus manifest
  trellis views                         list views with sizes and levels

Configuration is read from --config, ./trellis.yaml, or
~/.config/trellis/trellis.yaml, in that order. Every setting can also
come from a TRELLIS_* environment variable (TRELLIS_DATABASE_HOST,
TRELLIS_DATABASE_PASSWORD, ...). Command-line flags win over
environment variables, which win over the config file.`,
		Version:           Version,
		SilenceUsage:      true,
		PersistentPreRunE: bootstrap,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default ./trellis.yaml or ~/.config/trellis/trellis.yaml)")

	rootCmd.AddCommand(getInitCmd())
	rootCmd.AddCommand(getUpdateCmd())
	rootCmd.AddCommand(getRefreshCmd())
	rootCmd.AddCommand(getApplyCmd())
	rootCmd.AddCommand(getDumpCmd())
	rootCmd.AddCommand(getViewsCmd())

	return rootCmd
}

// bootstrap prepares the environment before any subcommand runs. The
// order matters: directories first, then logging with defaults so
// config loading has somewhere to complain, then the real config,
// then logging again with the user's settings.
func bootstrap(cmd *cobra.Command, args []string) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to determine home directory: %w", err)
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		return fmt.Errorf("failed to create application directories: %w", err)
	}

	if err = iologger.Init(config.LogDir(homeDir), config.New().Log); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	result, err := ioconfig.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg = result.Config
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Logging again, now with the settings the user asked for.
	if err = iologger.Init(config.LogDir(homeDir), cfg.Log); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	switch result.Source {
	case "file":
		slog.Info("Configuration loaded", "file", result.SourcePath)
	case "defaults+env":
		slog.Info("Using default configuration with environment overrides")
	default:
		slog.Info("Using default configuration")
	}

	return nil
}

// getConfig returns the configuration assembled by bootstrap.
func getConfig() *config.Config {
	return cfg
}
