package ioviews

import (
	"context"

	"github.com/trellisdb/trellis/pkg/db"
	"github.com/trellisdb/trellis/pkg/lifecycle"
)

// RefreshCascader implements lifecycle.Refresher.
type RefreshCascader struct {
	conn     db.Conn
	resolver *Resolver
}

// NewRefreshCascader creates a RefreshCascader working through the
// given connection and introspector.
func NewRefreshCascader(
	conn db.Conn,
	intro db.Introspector,
) lifecycle.Refresher {
	return &RefreshCascader{
		conn:     conn,
		resolver: NewResolver(intro),
	}
}

// Refresh refreshes the named materialized view, honoring concurrently.
// With cascade, its transitive materialized dependents are discovered
// before the refresh is issued and refreshed afterward in ascending
// dependency order, never concurrently, so each dependent reads from
// already-refreshed upstream state. Capability checks run before any
// statement is sent.
func (r *RefreshCascader) Refresh(
	ctx context.Context,
	name string,
	concurrently, cascade bool,
) error {
	if !r.conn.SupportsMaterializedViews() {
		return NewUnsupportedFeatureError(FeatureMaterializedViews)
	}
	if concurrently && !r.conn.SupportsConcurrentRefreshes() {
		return NewUnsupportedFeatureError(FeatureConcurrentRefresh)
	}

	var dependents []string
	if cascade {
		var err error
		dependents, err = r.resolver.DependentsOf(ctx, name)
		if err != nil {
			return err
		}
	}

	sql := refreshSQL(r.conn.QuoteIdent, name, concurrently)
	if err := r.conn.Exec(ctx, sql); err != nil {
		return err
	}

	for _, dep := range dependents {
		sql := refreshSQL(r.conn.QuoteIdent, dep, false)
		if err := r.conn.Exec(ctx, sql); err != nil {
			return err
		}
	}
	return nil
}
