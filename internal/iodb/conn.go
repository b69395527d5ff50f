package iodb

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/trellisdb/trellis/pkg/db"
)

// pgxPoolConn implements db.Conn directly on the pool: every statement
// runs in its own implicit transaction. PostgreSQL refuses to run
// REFRESH MATERIALIZED VIEW CONCURRENTLY inside a transaction block,
// so the refresh workflow uses this connection instead of a Session.
// Savepoint-based restoration must never run on it.
type pgxPoolConn struct {
	pool *pgxpool.Pool
	caps capabilities
}

// Conn returns an autocommit db.Conn backed by the pool.
func (p *pgxOperator) Conn() (db.Conn, error) {
	if p.pool == nil {
		return nil, NewNotConnectedError()
	}
	return &pgxPoolConn{pool: p.pool, caps: p.caps}, nil
}

// Exec runs a statement that returns no rows.
func (c *pgxPoolConn) Exec(
	ctx context.Context,
	sql string,
	args ...any,
) error {
	_, err := c.pool.Exec(ctx, sql, args...)
	return classify(sql, err)
}

// Query runs a statement and returns its rows.
func (c *pgxPoolConn) Query(
	ctx context.Context,
	sql string,
	args ...any,
) (pgx.Rows, error) {
	rows, err := c.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, classify(sql, err)
	}
	return rows, nil
}

// QuoteIdent quotes a possibly schema-qualified identifier.
func (c *pgxPoolConn) QuoteIdent(name string) string {
	return QuoteIdent(name)
}

// SupportsMaterializedViews reports the capability probed at Connect.
func (c *pgxPoolConn) SupportsMaterializedViews() bool {
	return c.caps.matviews
}

// SupportsConcurrentRefreshes reports the capability probed at Connect.
func (c *pgxPoolConn) SupportsConcurrentRefreshes() bool {
	return c.caps.concurrentRefresh
}
