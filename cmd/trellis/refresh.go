package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/trellisdb/trellis/internal/iocatalog"
	"github.com/trellisdb/trellis/internal/iodb"
	"github.com/trellisdb/trellis/internal/ioviews"
	"github.com/trellisdb/trellis/pkg/config"
)

// getRefreshCmd returns the command that refreshes materialized views
// in dependency order.
func getRefreshCmd() *cobra.Command {
	var (
		concurrently bool
		cascade      bool
	)

	cmd := &cobra.Command{
		Use:   "refresh NAME",
		Short: "refresh a materialized view and the views built on it",
		Long: `Refresh the data of a materialized view.

With --cascade, every materialized view that transitively selects from
NAME is refreshed afterwards, nearest dependencies first, so each
refresh reads already-refreshed data.

With --concurrently, NAME is refreshed without locking out readers.
This requires a unique index on the view and, because PostgreSQL
rejects REFRESH ... CONCURRENTLY inside a transaction block, each
refresh commits on its own: the cascade is ordered but not atomic.
Dependent views always refresh non-concurrently.

Examples:

  trellis refresh account_totals
  trellis refresh account_totals --concurrently --cascade`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configWithFlags(cmd)
			if err != nil {
				return err
			}

			return runRefresh(cfg, args[0], concurrently, cascade)
		},
	}

	cmd.Flags().BoolVar(&concurrently, "concurrently", false,
		"refresh NAME without locking out readers (needs a unique index)")
	cmd.Flags().BoolVar(&cascade, "cascade", false,
		"also refresh materialized views that depend on NAME")
	addDatabaseFlags(cmd)

	return cmd
}

func runRefresh(
	cfg *config.Config,
	name string,
	concurrently, cascade bool,
) error {
	ctx := context.Background()

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer op.Close()

	// Refreshes run on an autocommit connection, not in a transaction:
	// REFRESH MATERIALIZED VIEW CONCURRENTLY is rejected inside a
	// transaction block.
	conn, err := op.Conn()
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}

	refresher := ioviews.NewRefreshCascader(conn, iocatalog.New(conn))

	start := time.Now()
	if err = refresher.Refresh(ctx, name, concurrently, cascade); err != nil {
		return fmt.Errorf("failed to refresh %s: %w", name, err)
	}

	fmt.Printf("✓ Refreshed %s in %s\n",
		name, time.Since(start).Round(time.Millisecond))
	return nil
}
