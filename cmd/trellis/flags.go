package main

import (
	"github.com/spf13/cobra"
	"github.com/trellisdb/trellis/internal/ioconfig"
	"github.com/trellisdb/trellis/pkg/config"
)

// addDatabaseFlags registers the connection override flags shared by
// every command that talks to the database.
func addDatabaseFlags(cmd *cobra.Command) {
	cmd.Flags().String("host", "", "database host (overrides config)")
	cmd.Flags().Int("port", 0, "database port (overrides config)")
	cmd.Flags().String("user", "", "database user (overrides config)")
	cmd.Flags().String("password", "", "database password (overrides config)")
	cmd.Flags().String("database", "", "database name (overrides config)")
	cmd.Flags().String("ssl-mode", "",
		"ssl mode: disable, require, verify-ca, verify-full (overrides config)")
}

// configWithFlags overlays cmd's database flags onto the loaded
// configuration. Flags the user did not pass leave the config alone.
func configWithFlags(cmd *cobra.Command) (*config.Config, error) {
	return ioconfig.BindFlags(cmd, getConfig())
}
