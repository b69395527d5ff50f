package db

import (
	"context"

	"github.com/trellisdb/trellis/pkg/catalog"
)

// Introspector produces catalog descriptors for the engine. All lookups are
// scoped to the relations visible in the active search path
// (current_schemas(false)) and exclude extension-owned relations.
// Descriptors are constructed fresh on every call; nothing is cached across
// calls.
type Introspector interface {
	// ListViews returns every visible view and materialized view.
	ListViews(ctx context.Context) ([]catalog.View, error)

	// ListIndexes returns the indexes attached to object.
	ListIndexes(ctx context.Context, object string) ([]catalog.Index, error)

	// ListTriggers returns the triggers attached to object.
	ListTriggers(ctx context.Context, object string) ([]catalog.Trigger, error)

	// ViewLevels returns the dependency level of every visible view,
	// taking the maximum level across all dependency paths. Matching is
	// by bare relation name within the search path; equally named
	// relations in different schemas are conflated. This is a known
	// limitation of the level computation, kept deliberately since the
	// intended scope is a single search path.
	ViewLevels(ctx context.Context) ([]catalog.DependencyLevel, error)

	// MaterializedDependents returns the materialized views transitively
	// dependent on name, excluding name itself, with levels counted from
	// name outward.
	MaterializedDependents(ctx context.Context, name string) ([]catalog.DependencyLevel, error)
}
