package iodb

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/trellisdb/trellis/pkg/db"
)

// pgxSession implements db.Session on one pgx transaction. All engine
// statements of one lifecycle operation flow through a single session,
// so savepoints issued via Exec stay visible to later statements.
type pgxSession struct {
	tx   pgx.Tx
	caps capabilities
}

// Exec runs a statement that returns no rows.
func (s *pgxSession) Exec(
	ctx context.Context,
	sql string,
	args ...any,
) error {
	_, err := s.tx.Exec(ctx, sql, args...)
	return classify(sql, err)
}

// Query runs a statement and returns its rows.
func (s *pgxSession) Query(
	ctx context.Context,
	sql string,
	args ...any,
) (pgx.Rows, error) {
	rows, err := s.tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, classify(sql, err)
	}
	return rows, nil
}

// QuoteIdent quotes a possibly schema-qualified identifier.
func (s *pgxSession) QuoteIdent(name string) string {
	return QuoteIdent(name)
}

// SupportsMaterializedViews reports the capability probed at Connect.
func (s *pgxSession) SupportsMaterializedViews() bool {
	return s.caps.matviews
}

// SupportsConcurrentRefreshes reports the capability probed at Connect.
func (s *pgxSession) SupportsConcurrentRefreshes() bool {
	return s.caps.concurrentRefresh
}

// Commit commits the transaction.
func (s *pgxSession) Commit(ctx context.Context) error {
	return s.tx.Commit(ctx)
}

// Rollback aborts the transaction. Calling it after Commit is a no-op
// so sessions can be rolled back in a defer.
func (s *pgxSession) Rollback(ctx context.Context) error {
	err := s.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

// classify wraps server-rejected statements in *db.StatementError.
// Transport faults and context cancellation pass through untouched,
// so the engine's savepoint guards never swallow them.
func classify(sql string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &db.StatementError{SQL: sql, Err: err}
	}
	return err
}

// QuoteIdent quotes an identifier for interpolation into DDL,
// splitting on "." so schema-qualified names quote each part
// separately.
func QuoteIdent(name string) string {
	return pgx.Identifier(strings.Split(name, ".")).Sanitize()
}
