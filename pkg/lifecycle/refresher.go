package lifecycle

import "context"

// Refresher refreshes materialized views together with the
// materialized views that are built on top of them.
type Refresher interface {
	// Refresh refreshes the named materialized view. With cascade,
	// every materialized view that transitively depends on it is
	// refreshed afterwards, nearest dependencies first, so each
	// refresh reads already-refreshed data.
	//
	// The concurrently flag applies to the named view only and
	// requires backend support as well as a unique index on the view;
	// dependents always refresh non-concurrently.
	Refresh(ctx context.Context, name string, concurrently, cascade bool) error
}
