package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/trellisdb/trellis/internal/iofs"
	"github.com/trellisdb/trellis/pkg/config"
)

// getInitCmd returns the command that writes config and plan
// templates into ~/.config/trellis.
func getInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "create config and plan file templates",
		Long: `Create commented configuration and plan templates.

Writes trellis.yaml and views.yaml templates into ~/.config/trellis.
Files that already exist are left untouched, so running init again is
always safe.`,
		RunE: runInit,
	}

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to determine home directory: %w", err)
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		return fmt.Errorf("failed to create config template: %w", err)
	}
	fmt.Printf("✓ Config file: %s\n", config.ConfigFilePath(homeDir))

	if err = iofs.EnsurePlanFile(homeDir); err != nil {
		return fmt.Errorf("failed to create plan template: %w", err)
	}
	fmt.Printf("✓ Plan file:   %s\n", config.PlanFilePath(homeDir))

	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit the config file with your database connection settings")
	fmt.Println("  2. Describe your views in the plan file")
	fmt.Printf("  3. Run: trellis apply --plan %s\n", config.PlanFilePath(homeDir))

	return nil
}
