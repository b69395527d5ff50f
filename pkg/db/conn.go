package db

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Conn is the statement-execution surface the reapplication engine works
// against. Implementations run every statement strictly sequentially on one
// database session, inside the caller's enclosing transaction; savepoints
// issued through Exec are therefore visible to subsequent statements.
//
// Server-rejected statements are reported as *StatementError so callers can
// tell them apart from transport faults (see errors.go).
type Conn interface {
	// Exec runs a statement that returns no rows.
	Exec(ctx context.Context, sql string, args ...any) error

	// Query runs a statement and returns its rows.
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)

	// QuoteIdent quotes an identifier, splitting on "." so that
	// schema-qualified names quote each part separately.
	QuoteIdent(name string) string

	// SupportsMaterializedViews reports whether the backend can create
	// and refresh materialized views.
	SupportsMaterializedViews() bool

	// SupportsConcurrentRefreshes reports whether REFRESH MATERIALIZED
	// VIEW CONCURRENTLY is available.
	SupportsConcurrentRefreshes() bool
}

// Session is a Conn bound to an open transaction. The transaction is owned
// by the caller of Operator.Begin: the engine itself only ever sees Conn
// and never commits, rolls back, or opens another transaction.
type Session interface {
	Conn

	// Commit commits the enclosing transaction.
	Commit(ctx context.Context) error

	// Rollback aborts the enclosing transaction. Safe to call after
	// Commit; the error from a completed transaction is ignored by
	// convention (defer sess.Rollback(ctx)).
	Rollback(ctx context.Context) error
}
