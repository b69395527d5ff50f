package lifecycle

import "context"

// Dumper exports view schema from a live database and reports on the
// views it finds.
type Dumper interface {
	// Dump writes one .sql file per view or materialized view into
	// dir, plus a views.yaml manifest that the apply workflow accepts
	// as a plan. Files are ordered in the manifest by dependency
	// level, so applying the manifest recreates views before their
	// dependents.
	Dump(ctx context.Context, dir string) (*DumpSummary, error)

	// List returns every view and materialized view in the active
	// search path with size and dependency information.
	List(ctx context.Context) ([]ViewInfo, error)
}

// DumpSummary describes the outcome of a schema dump.
type DumpSummary struct {
	// Views is the number of views written, materialized included.
	Views int

	// Materialized is the number of materialized views among Views.
	Materialized int

	// Bytes is the total size of everything written, manifest included.
	Bytes int64

	// Dir is the directory the dump landed in.
	Dir string

	// ManifestPath is the full path of the written manifest.
	ManifestPath string
}

// ViewInfo is one row of the view listing.
type ViewInfo struct {
	Name         string
	Namespace    string
	Materialized bool

	// Level is the view's dependency level; 0 means the view depends
	// on no other view.
	Level int

	// Rows is the planner's row estimate; -1 when the relation was
	// never analyzed.
	Rows int64

	// Bytes is the total on-disk size. Always 0 for plain views.
	Bytes int64
}
