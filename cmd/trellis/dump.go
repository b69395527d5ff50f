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

// getDumpCmd returns the command that exports view schema to disk.
func getDumpCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "export view definitions as .sql files plus a manifest",
		Long: `Export every view and materialized view as a .sql file.

One file per view is written into the output directory, along with a
views.yaml manifest ordered by dependency level, base views first. The
manifest is a valid plan for trellis apply, so a dump doubles as a
backup that can recreate the views on a fresh database.

Examples:

  trellis dump
  trellis dump --dir db/views`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configWithFlags(cmd)
			if err != nil {
				return err
			}

			if dir == "" {
				dir = cfg.Views.DumpDir
			}

			return runDump(cfg, dir)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "",
		"output directory (default: views.dump_dir from config)")
	addDatabaseFlags(cmd)

	return cmd
}

func runDump(cfg *config.Config, dir string) error {
	ctx := context.Background()

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer op.Close()

	pool := op.Pool()
	dumper := iodump.NewDumper(pool, iocatalog.New(pool), cfg.JobsNumber)

	sum, err := dumper.Dump(ctx, dir)
	if err != nil {
		return fmt.Errorf("failed to dump views: %w", err)
	}

	fmt.Printf("✓ Dumped %s views (%s materialized, %s) to %s\n",
		humanize.Comma(int64(sum.Views)),
		humanize.Comma(int64(sum.Materialized)),
		humanize.Bytes(uint64(sum.Bytes)),
		sum.Dir,
	)

	if sum.Views > 0 {
		fmt.Println("\nNext steps:")
		fmt.Println("  Review the dump, then recreate the views anywhere with:")
		fmt.Printf("    trellis apply --plan %s\n", sum.ManifestPath)
	}

	return nil
}
