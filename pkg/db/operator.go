// Package db defines the database-facing contracts implemented by the
// impure internal packages. The reapplication engine and the CLI depend
// only on these interfaces, never on a concrete driver type, so every
// collaborator can be replaced by a fake in tests.
package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/trellisdb/trellis/pkg/config"
)

// Operator defines connection lifecycle management for the database.
// It provides the pool for read-only tooling (dump, listings) and hands
// out transaction-bound Sessions for engine operations.
//
// Design rationale:
// - Keeps the interface minimal; statement semantics live on Conn
// - Pool() enables tooling to fan out read-only queries across connections
// - Begin() is the only way to obtain a Session, so every engine call
//   runs inside a caller-owned transaction
// - Conn() serves the one statement PostgreSQL refuses inside a
//   transaction block, REFRESH MATERIALIZED VIEW CONCURRENTLY
type Operator interface {
	// Connect establishes a connection pool to the database and probes
	// server capabilities (materialized views, concurrent refresh) once.
	Connect(ctx context.Context, cfg *config.DatabaseConfig) error

	// Close closes the database connection pool.
	Close() error

	// Pool returns the underlying pgxpool.Pool for read-only tooling.
	// Engine operations must not use it; they go through Begin.
	Pool() *pgxpool.Pool

	// Begin opens a transaction on a single pooled connection and
	// returns it as a Session. The caller owns the transaction and must
	// Commit or Rollback it.
	Begin(ctx context.Context) (Session, error)

	// Conn returns an autocommit Conn backed by the pool: every
	// statement runs in its own implicit transaction. Required for
	// workflows that issue statements the server rejects inside a
	// transaction block, such as concurrent refreshes.
	Conn() (Conn, error)
}
