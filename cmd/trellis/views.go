package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/trellisdb/trellis/internal/iocatalog"
	"github.com/trellisdb/trellis/internal/iodb"
	"github.com/trellisdb/trellis/internal/iodump"
	"github.com/trellisdb/trellis/pkg/config"
)

// getViewsCmd returns the command that lists views with size and
// dependency information.
func getViewsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "views",
		Short: "list views and materialized views",
		Long: `List every view and materialized view in the search path.

LEVEL is the view's dependency level: 0 means the view selects only
from tables, 1 means it selects from at least one level-0 view, and so
on. ROWS is the planner's estimate and is empty until the view has
been analyzed. SIZE is on-disk size and applies to materialized views
only.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configWithFlags(cmd)
			if err != nil {
				return err
			}

			return runViews(cfg)
		},
	}

	addDatabaseFlags(cmd)

	return cmd
}

func runViews(cfg *config.Config) error {
	ctx := context.Background()

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer op.Close()

	pool := op.Pool()
	dumper := iodump.NewDumper(pool, iocatalog.New(pool), cfg.JobsNumber)

	infos, err := dumper.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list views: %w", err)
	}

	if len(infos) == 0 {
		fmt.Println("No views found.")
		return nil
	}

	fmt.Printf("%-40s %-8s %5s %14s %10s\n",
		"NAME", "KIND", "LEVEL", "ROWS", "SIZE")
	for _, v := range infos {
		kind := "view"
		if v.Materialized {
			kind = "matview"
		}

		rows := ""
		if v.Rows >= 0 {
			rows = humanize.Comma(v.Rows)
		}

		size := ""
		if v.Materialized {
			size = humanize.Bytes(uint64(v.Bytes))
		}

		fmt.Printf("%-40s %-8s %5d %14s %10s\n",
			v.Name, kind, v.Level, rows, size)
	}

	return nil
}
