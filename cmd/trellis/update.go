package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/trellisdb/trellis/internal/iocatalog"
	"github.com/trellisdb/trellis/internal/iodb"
	"github.com/trellisdb/trellis/internal/ioviews"
	"github.com/trellisdb/trellis/pkg/config"
	"github.com/trellisdb/trellis/pkg/logger"
	"github.com/trellisdb/trellis/pkg/plan"
)

// getUpdateCmd returns the command that replaces a single view's
// definition cascade-safely.
func getUpdateCmd() *cobra.Command {
	var (
		definition     string
		definitionFile string
		materialized   bool
		cascade        bool
	)

	cmd := &cobra.Command{
		Use:   "update NAME",
		Short: "replace a view's definition without losing its dependents",
		Long: `Replace the definition of a view or materialized view.

The replacement runs as DROP plus CREATE because in-place REPLACE
cannot remove or reorder columns. The view's own triggers are captured
before the drop and recreated afterward; for materialized views the
same goes for indexes.

With --cascade, views that depend on NAME are dropped along with it
and recreated afterward in dependency order, together with their
indexes and triggers. Without --cascade the update fails if any
dependent view exists.

The whole update runs in one transaction. Objects whose recreation
fails (usually because the new definition dropped a column they used)
are reported and skipped; everything else survives.

Examples:

  trellis update active_users --definition "SELECT * FROM users WHERE active"
  trellis update daily_totals --definition-file totals.sql --materialized --cascade`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := resolveDefinition(definition, definitionFile)
			if err != nil {
				return err
			}

			cfg, err := configWithFlags(cmd)
			if err != nil {
				return err
			}

			return runUpdate(cfg, args[0], def, materialized, cascade)
		},
	}

	cmd.Flags().StringVar(&definition, "definition", "",
		"the SELECT statement defining the view")
	cmd.Flags().StringVar(&definitionFile, "definition-file", "",
		"path of a .sql file holding the SELECT statement")
	cmd.Flags().BoolVar(&materialized, "materialized", false,
		"NAME is a materialized view")
	cmd.Flags().BoolVar(&cascade, "cascade", false,
		"drop and recreate dependent views too")
	addDatabaseFlags(cmd)

	return cmd
}

func runUpdate(
	cfg *config.Config,
	name, definition string,
	materialized, cascade bool,
) error {
	ctx := context.Background()

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer op.Close()

	sess, err := op.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sess.Rollback(ctx)

	// The introspector rides the transaction so snapshots taken after
	// the drop see the uncommitted catalog state.
	manager := ioviews.NewViewUpdater(
		sess,
		iocatalog.New(sess),
		logger.NewNotifier(logger.New(&cfg.Log)),
	)

	if materialized {
		err = manager.UpdateMaterializedView(ctx, name, definition, cascade)
	} else {
		err = manager.UpdateView(ctx, name, definition, cascade)
	}
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", name, err)
	}

	if err = sess.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit update of %s: %w", name, err)
	}

	fmt.Printf("✓ Updated %s\n", name)
	return nil
}

// resolveDefinition returns the SELECT statement from the inline flag
// or the file, requiring exactly one source.
func resolveDefinition(definition, definitionFile string) (string, error) {
	switch {
	case definition != "" && definitionFile != "":
		return "", fmt.Errorf(
			"--definition and --definition-file are mutually exclusive")
	case definition == "" && definitionFile == "":
		return "", fmt.Errorf(
			"either --definition or --definition-file is required")
	case definitionFile != "":
		data, err := os.ReadFile(definitionFile)
		if err != nil {
			return "", fmt.Errorf("failed to read definition file: %w", err)
		}
		def := plan.NormalizeDefinition(string(data))
		if def == "" {
			return "", fmt.Errorf("definition file %s is empty", definitionFile)
		}
		return def, nil
	default:
		def := plan.NormalizeDefinition(definition)
		if def == "" {
			return "", fmt.Errorf("--definition is empty")
		}
		return def, nil
	}
}
