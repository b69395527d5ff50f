// Package ioviews implements the cascade-safe view lifecycle engine.
// Replacing a view by drop+recreate (required because in-place REPLACE
// cannot reorder or remove columns) lets the database transitively drop
// every dependent view along with its indexes and triggers. The engine
// snapshots those objects first, recreates the collaterally dropped
// views in dependency order afterward, and best-effort restores their
// indexes and triggers behind savepoints.
//
// All statements run strictly sequentially on one connection supplied
// by the caller, inside the caller's enclosing transaction. The engine
// never opens a second connection or a nested top-level transaction;
// savepoints are its only isolation primitive.
package ioviews

import (
	"context"

	"github.com/trellisdb/trellis/pkg/catalog"
	"github.com/trellisdb/trellis/pkg/db"
	"github.com/trellisdb/trellis/pkg/lifecycle"
)

// ViewUpdater implements lifecycle.ViewManager.
type ViewUpdater struct {
	conn     db.Conn
	intro    db.Introspector
	resolver *Resolver
	indexes  *IndexKeeper
	triggers *TriggerKeeper
}

// NewViewUpdater creates a ViewUpdater working through the given
// connection and introspector. The notifier receives per-object
// reapplication reports; nil is normalized to a no-op.
func NewViewUpdater(
	conn db.Conn,
	intro db.Introspector,
	notifier lifecycle.Notifier,
) lifecycle.ViewManager {
	return &ViewUpdater{
		conn:     conn,
		intro:    intro,
		resolver: NewResolver(intro),
		indexes:  NewIndexKeeper(conn, intro, notifier),
		triggers: NewTriggerKeeper(conn, intro, notifier),
	}
}

// CreateView creates a view, optionally with CREATE OR REPLACE
// semantics.
func (u *ViewUpdater) CreateView(
	ctx context.Context,
	name, definition string,
	orReplace bool,
) error {
	sql := createViewSQL(u.conn.QuoteIdent, name, definition, orReplace)
	return u.conn.Exec(ctx, sql)
}

// DropView drops a view. With cascade the database also drops every
// object that depends on it.
func (u *ViewUpdater) DropView(
	ctx context.Context,
	name string,
	ifExists, cascade bool,
) error {
	sql := dropViewSQL(u.conn.QuoteIdent, name, ifExists, cascade)
	return u.conn.Exec(ctx, sql)
}

// CreateMaterializedView creates a materialized view. It fails before
// issuing any statement if the backend has no materialized-view
// support.
func (u *ViewUpdater) CreateMaterializedView(
	ctx context.Context,
	name, definition string,
) error {
	if !u.conn.SupportsMaterializedViews() {
		return NewUnsupportedFeatureError(FeatureMaterializedViews)
	}
	sql := createMaterializedViewSQL(u.conn.QuoteIdent, name, definition)
	return u.conn.Exec(ctx, sql)
}

// DropMaterializedView drops a materialized view. Capability-gated like
// CreateMaterializedView.
func (u *ViewUpdater) DropMaterializedView(
	ctx context.Context,
	name string,
	ifExists, cascade bool,
) error {
	if !u.conn.SupportsMaterializedViews() {
		return NewUnsupportedFeatureError(FeatureMaterializedViews)
	}
	sql := dropMaterializedViewSQL(u.conn.QuoteIdent, name, ifExists, cascade)
	return u.conn.Exec(ctx, sql)
}

// UpdateView replaces a view's definition by drop+recreate. The view's
// own triggers are always captured before the drop and restored after
// the recreate; a drop destroys same-table triggers whether or not it
// cascades. With cascade, dependent views the drop destroyed are
// recreated in dependency order together with their indexes and
// triggers.
func (u *ViewUpdater) UpdateView(
	ctx context.Context,
	name, definition string,
	cascade bool,
) error {
	return u.update(ctx, name, definition, cascade, false)
}

// UpdateMaterializedView is UpdateView for materialized views. The
// target's own indexes are additionally preserved across the
// drop+recreate regardless of cascade. It fails before issuing any
// statement if the backend has no materialized-view support.
func (u *ViewUpdater) UpdateMaterializedView(
	ctx context.Context,
	name, definition string,
	cascade bool,
) error {
	if !u.conn.SupportsMaterializedViews() {
		return NewUnsupportedFeatureError(FeatureMaterializedViews)
	}
	return u.update(ctx, name, definition, cascade, true)
}

// update runs the shared replacement sequence:
// snapshot, drop, recreate, restore own triggers, restore dependents.
// Failure at any unguarded step propagates and aborts the caller's
// transaction; only the savepoint-guarded restoration sub-steps degrade
// to skip+notify.
func (u *ViewUpdater) update(
	ctx context.Context,
	name, definition string,
	cascade, materialized bool,
) error {
	snap, err := u.snapshot(ctx, name, cascade)
	if err != nil {
		return err
	}

	replace := func() error {
		return u.triggers.On(ctx, name, func() error {
			if err := u.drop(ctx, name, cascade, materialized); err != nil {
				return err
			}
			return u.create(ctx, name, definition, materialized)
		})
	}
	if materialized {
		err = u.indexes.WithPreservedIndexes(ctx, name, replace)
	} else {
		err = replace()
	}
	if err != nil {
		return err
	}

	if !cascade {
		return nil
	}
	return u.restoreDependents(ctx, snap)
}

// cascadeSnapshot holds the dependent-object state captured before a
// cascading drop: every other visible view in discovery order, their
// recreation order, the indexes attached to materialized views, and
// the triggers attached to every view.
type cascadeSnapshot struct {
	existing []catalog.View
	order    []string
	indexes  []catalog.Index
	triggers []catalog.Trigger
}

// snapshot captures the cascade snapshot. Without cascade nothing is
// captured here; the target's own triggers are captured separately by
// the trigger keeper wrapping the drop.
func (u *ViewUpdater) snapshot(
	ctx context.Context,
	name string,
	cascade bool,
) (*cascadeSnapshot, error) {
	if !cascade {
		return nil, nil
	}

	views, err := u.intro.ListViews(ctx)
	if err != nil {
		return nil, err
	}

	snap := &cascadeSnapshot{}
	names := make([]string, 0, len(views))
	for _, v := range views {
		if v.Name != name {
			snap.existing = append(snap.existing, v)
			names = append(names, v.Name)
		}
		if v.Materialized {
			indexes, err := u.intro.ListIndexes(ctx, v.Name)
			if err != nil {
				return nil, err
			}
			snap.indexes = append(snap.indexes, indexes...)
		}
		triggers, err := u.intro.ListTriggers(ctx, v.Name)
		if err != nil {
			return nil, err
		}
		snap.triggers = append(snap.triggers, triggers...)
	}

	snap.order, err = u.resolver.OrderFor(ctx, names)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// restoreDependents recreates the views the cascading drop destroyed.
// The dropped set is every view present in the snapshot and absent from
// a fresh introspection; nothing outside that set is ever touched, so
// the engine never invents objects.
func (u *ViewUpdater) restoreDependents(
	ctx context.Context,
	snap *cascadeSnapshot,
) error {
	survivors, err := u.intro.ListViews(ctx)
	if err != nil {
		return err
	}
	alive := make(map[string]bool, len(survivors))
	for _, v := range survivors {
		alive[v.Name] = true
	}

	dropped := make(map[string]catalog.View, len(snap.existing))
	for _, v := range snap.existing {
		if !alive[v.Name] {
			dropped[v.Name] = v
		}
	}

	for _, name := range snap.order {
		v, ok := dropped[name]
		if !ok {
			continue
		}
		if err := u.recreate(ctx, v, snap); err != nil {
			return err
		}
	}
	return nil
}

// recreate rebuilds one collaterally dropped view from its snapshot and
// hands back its captured indexes (materialized views only) and
// triggers. The view creation itself is unguarded; index and trigger
// restoration is best-effort.
func (u *ViewUpdater) recreate(
	ctx context.Context,
	v catalog.View,
	snap *cascadeSnapshot,
) error {
	if err := u.create(ctx, v.Name, v.Definition, v.Materialized); err != nil {
		return err
	}

	if v.Materialized {
		for _, idx := range snap.indexes {
			if idx.Object != v.Name {
				continue
			}
			if err := u.indexes.TryCreate(ctx, idx); err != nil {
				return err
			}
		}
	}

	for _, trg := range snap.triggers {
		if trg.Table != v.Name {
			continue
		}
		if err := u.triggers.TryCreate(ctx, trg); err != nil {
			return err
		}
	}
	return nil
}

func (u *ViewUpdater) create(
	ctx context.Context,
	name, definition string,
	materialized bool,
) error {
	var sql string
	if materialized {
		sql = createMaterializedViewSQL(u.conn.QuoteIdent, name, definition)
	} else {
		sql = createViewSQL(u.conn.QuoteIdent, name, definition, false)
	}
	return u.conn.Exec(ctx, sql)
}

func (u *ViewUpdater) drop(
	ctx context.Context,
	name string,
	cascade, materialized bool,
) error {
	var sql string
	if materialized {
		sql = dropMaterializedViewSQL(u.conn.QuoteIdent, name, false, cascade)
	} else {
		sql = dropViewSQL(u.conn.QuoteIdent, name, false, cascade)
	}
	return u.conn.Exec(ctx, sql)
}
