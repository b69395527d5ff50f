// Package lifecycle defines the high-level contracts the CLI drives.
// Implementations live in internal/io* packages and receive their database
// collaborators (Conn, Introspector, Notifier) explicitly at construction;
// none of them reads ambient global state.
package lifecycle

import "context"

// ViewManager manages the lifecycle of views and materialized views inside
// a caller-owned transaction.
//
// The Update operations are cascade-safe: replacing a view by drop+recreate
// (required because in-place REPLACE cannot reorder or remove columns) may
// transitively destroy dependent views and their indexes and triggers; the
// updater snapshots those objects first and restores them afterward in
// dependency order, best-effort for indexes and triggers.
type ViewManager interface {
	// CreateView creates a view, optionally with CREATE OR REPLACE
	// semantics.
	CreateView(ctx context.Context, name, definition string, orReplace bool) error

	// DropView drops a view. With cascade, the database also drops every
	// object that depends on it.
	DropView(ctx context.Context, name string, ifExists, cascade bool) error

	// CreateMaterializedView creates a materialized view. Fails before
	// issuing any statement if the backend has no materialized-view
	// support.
	CreateMaterializedView(ctx context.Context, name, definition string) error

	// DropMaterializedView drops a materialized view. Capability-gated
	// like CreateMaterializedView.
	DropMaterializedView(ctx context.Context, name string, ifExists, cascade bool) error

	// UpdateView replaces a view's definition by drop+recreate. The
	// view's own triggers are always captured before the drop and
	// restored after the recreate. With cascade, collaterally dropped
	// dependent views are recreated in dependency order together with
	// their indexes and triggers.
	UpdateView(ctx context.Context, name, definition string, cascade bool) error

	// UpdateMaterializedView is UpdateView for materialized views; the
	// target's own indexes are additionally preserved across the
	// drop+recreate regardless of cascade.
	UpdateMaterializedView(ctx context.Context, name, definition string, cascade bool) error
}
