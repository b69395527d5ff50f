// Package iodump implements the schema-dump tooling: one .sql file per
// view or materialized view plus a views.yaml manifest that the apply
// workflow accepts as a plan. This is an impure I/O package that
// implements contracts defined in pkg/.
package iodump

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/trellisdb/trellis/pkg/catalog"
	"github.com/trellisdb/trellis/pkg/db"
	"github.com/trellisdb/trellis/pkg/lifecycle"
	"github.com/trellisdb/trellis/pkg/plan"
)

// ManifestName is the file name of the dump manifest.
const ManifestName = "views.yaml"

// DumperImpl implements lifecycle.Dumper.
type DumperImpl struct {
	pool  *pgxpool.Pool
	intro db.Introspector
	jobs  int
}

// NewDumper creates a Dumper. intro must be pool-backed: per-view
// detail queries fan out across jobs goroutines, each on its own pool
// connection, read-only and outside any transaction. Values of jobs
// below 1 mean sequential.
func NewDumper(
	pool *pgxpool.Pool,
	intro db.Introspector,
	jobs int,
) lifecycle.Dumper {
	if jobs < 1 {
		jobs = 1
	}
	return &DumperImpl{pool: pool, intro: intro, jobs: jobs}
}

// Dump writes one .sql file per view into dir plus the views.yaml
// manifest. Manifest entries are ordered ascending by dependency
// level and marked cascade, so reapplying the manifest over a live
// schema recreates base views first and restores their dependents.
func (d *DumperImpl) Dump(
	ctx context.Context,
	dir string,
) (*lifecycle.DumpSummary, error) {
	views, err := d.intro.ListViews(ctx)
	if err != nil {
		return nil, err
	}

	levels, err := d.intro.ViewLevels(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]int, len(levels))
	for _, l := range levels {
		byName[l.Name] = l.Level
	}
	slices.SortStableFunc(views, func(a, b catalog.View) int {
		return cmp.Compare(byName[a.Name], byName[b.Name])
	})

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, NewCreateDirError(dir, err)
	}

	entries := make([]plan.Entry, len(views))
	sizes := make([]int64, len(views))

	bar := newProgressBar(len(views), "dump")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.jobs)
	for i, v := range views {
		i, v := i, v
		g.Go(func() error {
			file := v.Name + ".sql"
			path := filepath.Join(dir, file)
			data := []byte(plan.NormalizeDefinition(v.Definition) + ";\n")
			if err := os.WriteFile(path, data, 0644); err != nil {
				return NewWriteError(path, err)
			}

			entry := plan.Entry{
				Name:           v.Name,
				DefinitionFile: file,
				Materialized:   v.Materialized,
				Cascade:        true,
			}
			if v.Materialized {
				indexes, err := d.intro.ListIndexes(gctx, v.Name)
				if err != nil {
					return err
				}
				for _, idx := range indexes {
					entry.Indexes = append(entry.Indexes, idx.Definition)
				}
			}

			entries[i] = entry
			sizes[i] = int64(len(data))
			bar.Increment()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		bar.Finish()
		return nil, err
	}
	bar.Finish()

	manifestPath, manifestBytes, err := d.writeManifest(dir, entries)
	if err != nil {
		return nil, err
	}

	sum := &lifecycle.DumpSummary{
		Dir:          dir,
		ManifestPath: manifestPath,
		Bytes:        manifestBytes,
	}
	for i, v := range views {
		sum.Views++
		if v.Materialized {
			sum.Materialized++
		}
		sum.Bytes += sizes[i]
	}

	slog.Info("Dumped views",
		"count", humanize.Comma(int64(sum.Views)),
		"size", humanize.Bytes(uint64(sum.Bytes)),
		"dir", dir,
	)
	return sum, nil
}

// writeManifest writes the plan-shaped manifest and returns its path
// and size.
func (d *DumperImpl) writeManifest(
	dir string,
	entries []plan.Entry,
) (string, int64, error) {
	encoded, err := yaml.Marshal(&plan.Plan{Views: entries})
	if err != nil {
		return "", 0, fmt.Errorf("failed to encode manifest: %w", err)
	}

	header := "# Written by trellis dump. Apply with:\n" +
		"#   trellis apply --plan " + ManifestName + "\n"
	data := append([]byte(header), encoded...)

	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", 0, NewWriteError(path, err)
	}
	return path, int64(len(data)), nil
}

// listQuery reports every view in the search path with the planner's
// row estimate and, for materialized views, the total on-disk size.
// Extension-owned relations are skipped, as everywhere else.
const listQuery = `
SELECT c.relname, n.nspname,
       c.relkind = 'm',
       c.reltuples::bigint,
       CASE WHEN c.relkind = 'm'
            THEN pg_total_relation_size(c.oid)
            ELSE 0 END
FROM pg_catalog.pg_class c
JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
WHERE c.relkind IN ('v', 'm')
  AND n.nspname = ANY(current_schemas(false))
  AND NOT EXISTS (
    SELECT 1 FROM pg_catalog.pg_depend d
    WHERE d.objid = c.oid AND d.deptype = 'e'
  )
ORDER BY n.nspname, c.relname`

// List returns every visible view with kind, dependency level, row
// estimate, and size.
func (d *DumperImpl) List(ctx context.Context) ([]lifecycle.ViewInfo, error) {
	levels, err := d.intro.ViewLevels(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]int, len(levels))
	for _, l := range levels {
		byName[l.Name] = l.Level
	}

	rows, err := d.pool.Query(ctx, listQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list views: %w", err)
	}
	defer rows.Close()

	var infos []lifecycle.ViewInfo
	for rows.Next() {
		var info lifecycle.ViewInfo
		err := rows.Scan(
			&info.Name, &info.Namespace, &info.Materialized,
			&info.Rows, &info.Bytes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan view row: %w", err)
		}
		info.Level = byName[info.Name]
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list views: %w", err)
	}

	return infos, nil
}
