package iotesting

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/trellisdb/trellis/internal/iodb"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Account is a fixture base table. Integration tests build their views
// and materialized views on top of accounts and ledger entries.
type Account struct {
	ID     uint   `gorm:"primaryKey"`
	Name   string `gorm:"size:100;not null;uniqueIndex"`
	Active bool   `gorm:"not null;default:true"`
}

// LedgerEntry is a fixture base table holding postings per account.
type LedgerEntry struct {
	ID        uint      `gorm:"primaryKey"`
	AccountID uint      `gorm:"not null;index"`
	Account   Account   `gorm:"constraint:OnDelete:CASCADE"`
	Amount    int64     `gorm:"not null"`
	Day       time.Time `gorm:"not null;index"`
}

// CreateFixtureSchema builds the base tables integration tests run
// against: accounts and ledger_entries via GORM AutoMigrate, a few
// seed rows, and a plpgsql trigger function that view triggers can
// point at.
func CreateFixtureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	sqlDB := stdlib.OpenDBFromPool(pool)

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{},
	)
	if err != nil {
		return fmt.Errorf("failed to open gorm connection: %w", err)
	}

	if err := gormDB.AutoMigrate(&Account{}, &LedgerEntry{}); err != nil {
		return fmt.Errorf("failed to migrate fixture schema: %w", err)
	}

	accounts := []Account{
		{Name: "cash", Active: true},
		{Name: "savings", Active: true},
		{Name: "closed", Active: false},
	}
	if err := gormDB.WithContext(ctx).Create(&accounts).Error; err != nil {
		return fmt.Errorf("failed to seed fixture accounts: %w", err)
	}

	entries := []LedgerEntry{
		{AccountID: accounts[0].ID, Amount: 100, Day: day(2025, 1, 1)},
		{AccountID: accounts[0].ID, Amount: -40, Day: day(2025, 1, 2)},
		{AccountID: accounts[1].ID, Amount: 900, Day: day(2025, 1, 1)},
	}
	if err := gormDB.WithContext(ctx).Create(&entries).Error; err != nil {
		return fmt.Errorf("failed to seed fixture entries: %w", err)
	}

	// Trigger function for INSTEAD OF triggers on fixture views.
	fn := `
CREATE OR REPLACE FUNCTION fixture_refuse_write() RETURNS trigger AS $$
BEGIN
  RAISE EXCEPTION 'fixture views are read-only';
END;
$$ LANGUAGE plpgsql`
	if _, err := pool.Exec(ctx, fn); err != nil {
		return fmt.Errorf("failed to create fixture trigger function: %w", err)
	}

	return nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ResetDatabase drops every view, materialized view, and table in the
// public schema so each integration test starts from a clean slate.
// Materialized views go first: they may depend on views and tables,
// and DROP TABLE CASCADE would otherwise take surprises with it.
func ResetDatabase(ctx context.Context, pool *pgxpool.Pool) error {
	steps := []struct {
		listQuery string
		dropSQL   string
	}{
		{
			listQuery: "SELECT matviewname FROM pg_matviews WHERE schemaname = 'public'",
			dropSQL:   "DROP MATERIALIZED VIEW IF EXISTS %s CASCADE",
		},
		{
			listQuery: "SELECT viewname FROM pg_views WHERE schemaname = 'public'",
			dropSQL:   "DROP VIEW IF EXISTS %s CASCADE",
		},
		{
			listQuery: "SELECT tablename FROM pg_tables WHERE schemaname = 'public'",
			dropSQL:   "DROP TABLE IF EXISTS %s CASCADE",
		},
	}

	for _, step := range steps {
		names, err := listNames(ctx, pool, step.listQuery)
		if err != nil {
			return err
		}
		for _, name := range names {
			drop := fmt.Sprintf(step.dropSQL, iodb.QuoteIdent(name))
			if _, err := pool.Exec(ctx, drop); err != nil {
				return fmt.Errorf("failed to drop %s: %w", name, err)
			}
		}
	}

	return nil
}

func listNames(
	ctx context.Context,
	pool *pgxpool.Pool,
	query string,
) ([]string, error) {
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list relations: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan relation name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list relations: %w", err)
	}

	return names, nil
}
