// Package iodb implements database operations using pgxpool.
// This is an impure I/O package that implements contracts
// defined in pkg/.
package iodb

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/trellisdb/trellis/pkg/config"
	"github.com/trellisdb/trellis/pkg/db"
)

// Server version numbers gating optional features.
const (
	// Materialized views appeared in PostgreSQL 9.3.
	minMatviewVersion = 90300
	// REFRESH MATERIALIZED VIEW CONCURRENTLY appeared in 9.4.
	minConcurrentRefreshVersion = 90400
)

// capabilities holds feature probes resolved once at Connect. Every
// Session handed out by the operator carries a copy, so capability
// checks never cost a round trip.
type capabilities struct {
	matviews          bool
	concurrentRefresh bool
}

// pgxOperator implements db.Operator interface using
// pgxpool for connection pooling.
type pgxOperator struct {
	pool *pgxpool.Pool
	caps capabilities
}

// NewPgxOperator creates a new database operator
// (without connecting).
func NewPgxOperator() db.Operator {
	return &pgxOperator{}
}

// Connect establishes a connection pool to PostgreSQL and resolves
// server capabilities from server_version_num. Uses sensible
// hardcoded pool settings that work well for most use cases.
func (p *pgxOperator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	// Build connection string
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)

	// Configure pool with sensible defaults
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return NewConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	// Hardcoded pool settings (can be made configurable
	// later if needed)
	poolConfig.MaxConns = 10       // Max connections
	poolConfig.MinConns = 2        // Keep 2 connections warm
	poolConfig.MaxConnLifetime = 0 // No lifetime limit
	poolConfig.MaxConnIdleTime = 0 // No idle timeout

	// Create pool
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return NewConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return NewConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	caps, err := probeCapabilities(ctx, pool)
	if err != nil {
		pool.Close()
		return NewVersionProbeError(err)
	}

	p.pool = pool
	p.caps = caps
	return nil
}

// probeCapabilities reads the numeric server version and derives the
// feature set from it.
func probeCapabilities(
	ctx context.Context,
	pool *pgxpool.Pool,
) (capabilities, error) {
	var caps capabilities
	var version int

	query := "SELECT current_setting('server_version_num')::int"
	err := pool.QueryRow(ctx, query).Scan(&version)
	if err != nil {
		return caps, err
	}

	caps.matviews = version >= minMatviewVersion
	caps.concurrentRefresh = version >= minConcurrentRefreshVersion
	return caps, nil
}

// Close releases all database connections.
func (p *pgxOperator) Close() error {
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}
	return nil
}

// Pool returns the underlying pgxpool.Pool for read-only tooling.
func (p *pgxOperator) Pool() *pgxpool.Pool {
	return p.pool
}

// Begin opens a transaction on one pooled connection and returns it
// as a db.Session. The caller owns the transaction.
func (p *pgxOperator) Begin(ctx context.Context) (db.Session, error) {
	if p.pool == nil {
		return nil, NewNotConnectedError()
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, NewBeginError(err)
	}

	return &pgxSession{tx: tx, caps: p.caps}, nil
}
