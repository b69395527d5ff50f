// seed creates a demo schema for exercising trellis by hand.
//
// It builds two base tables (customers, orders), fills them with
// deterministic sample data, and stacks four views on top:
//
//	active_customers   view               level 0
//	customer_totals    materialized view  level 1, unique index
//	big_spenders       view               level 2
//	region_totals      materialized view  level 2
//
// The stack is deep enough to watch every trellis workflow do
// something interesting: `trellis update active_customers --cascade`
// ripples through all three dependents, `trellis refresh
// customer_totals --cascade` refreshes region_totals afterward, and
// `trellis dump` writes a four-entry manifest.
//
// Existing demo relations are dropped and recreated on every run.
// Connection settings come from the usual trellis configuration.
//
// Usage:
//
//	go run ./dev/seed [database]
//
// Examples:
//
//	go run ./dev/seed
//	go run ./dev/seed trellis_demo
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/trellisdb/trellis/internal/ioconfig"
	"github.com/trellisdb/trellis/internal/iodb"
	"github.com/trellisdb/trellis/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	customerCount = 40
	orderCount    = 400

	// randSeed keeps runs deterministic so demo numbers are stable.
	randSeed = 1
)

// Customer is a demo base table.
type Customer struct {
	ID     uint   `gorm:"primaryKey"`
	Name   string `gorm:"size:120;not null;uniqueIndex"`
	Region string `gorm:"size:40;not null;index"`
	Active bool   `gorm:"not null;default:true"`
}

// Order is a demo base table with one row per purchase.
type Order struct {
	ID          uint      `gorm:"primaryKey"`
	CustomerID  uint      `gorm:"not null;index"`
	Customer    Customer  `gorm:"constraint:OnDelete:CASCADE"`
	AmountCents int64     `gorm:"not null"`
	PlacedAt    time.Time `gorm:"not null;index"`
}

func main() {
	if len(os.Args) > 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s [database]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Arguments:\n")
		fmt.Fprintf(os.Stderr, "  database  Optional database name override\n\n")
		fmt.Fprintf(os.Stderr, "Examples:\n")
		fmt.Fprintf(os.Stderr, "  %s\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s trellis_demo\n", os.Args[0])
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	result, err := ioconfig.Load("")
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	cfg := result.Config

	if len(os.Args) == 2 {
		cfg.Database.Database = os.Args[1]
	}

	ctx := context.Background()

	logger.Info("seeding demo schema",
		"host", cfg.Database.Host,
		"database", cfg.Database.Database,
	)

	if err := seed(ctx, logger, &cfg.Database); err != nil {
		logger.Error("seeding failed", "error", err)
		os.Exit(1)
	}

	logger.Info("demo schema ready", "database", cfg.Database.Database)

	fmt.Println("\nTry it out:")
	fmt.Println("  trellis views")
	fmt.Println("  trellis refresh customer_totals --cascade")
	fmt.Println(`  trellis update active_customers --cascade \`)
	fmt.Println(`      --definition "SELECT id, name, region FROM customers WHERE active AND region <> 'west'"`)
	fmt.Println("  trellis dump --dir /tmp/trellis-demo")
}

func seed(
	ctx context.Context,
	logger *slog.Logger,
	dbCfg *config.DatabaseConfig,
) error {
	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, dbCfg); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer op.Close()
	pool := op.Pool()

	if err := dropDemoObjects(ctx, pool); err != nil {
		return err
	}
	logger.Info("previous demo relations dropped")

	if err := createTables(ctx, pool); err != nil {
		return err
	}
	logger.Info("base tables created",
		"customers", customerCount, "orders", orderCount)

	if err := createViews(ctx, pool); err != nil {
		return err
	}
	logger.Info("demo views created",
		"views", []string{
			"active_customers", "customer_totals",
			"big_spenders", "region_totals",
		})

	return nil
}

// dropDemoObjects removes a previous run's relations, dependents
// first so the base tables go quietly.
func dropDemoObjects(ctx context.Context, pool *pgxpool.Pool) error {
	drops := []string{
		"DROP MATERIALIZED VIEW IF EXISTS region_totals",
		"DROP VIEW IF EXISTS big_spenders",
		"DROP MATERIALIZED VIEW IF EXISTS customer_totals",
		"DROP VIEW IF EXISTS active_customers",
		"DROP TABLE IF EXISTS orders",
		"DROP TABLE IF EXISTS customers",
	}
	for _, sql := range drops {
		if _, err := pool.Exec(ctx, sql); err != nil {
			return fmt.Errorf("failed to drop demo relation: %w", err)
		}
	}
	return nil
}

func createTables(ctx context.Context, pool *pgxpool.Pool) error {
	sqlDB := stdlib.OpenDBFromPool(pool)

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{},
	)
	if err != nil {
		return fmt.Errorf("failed to open gorm connection: %w", err)
	}

	if err := gormDB.AutoMigrate(&Customer{}, &Order{}); err != nil {
		return fmt.Errorf("failed to migrate demo schema: %w", err)
	}

	rng := rand.New(rand.NewSource(randSeed))
	regions := []string{"north", "south", "east", "west"}

	customers := make([]Customer, customerCount)
	for i := range customers {
		customers[i] = Customer{
			Name:   fmt.Sprintf("customer-%03d", i+1),
			Region: regions[i%len(regions)],
			Active: rng.Intn(10) > 0,
		}
	}
	if err := gormDB.WithContext(ctx).Create(&customers).Error; err != nil {
		return fmt.Errorf("failed to seed customers: %w", err)
	}

	now := time.Now().UTC().Truncate(24 * time.Hour)
	orders := make([]Order, orderCount)
	for i := range orders {
		orders[i] = Order{
			CustomerID:  customers[rng.Intn(len(customers))].ID,
			AmountCents: int64(500 + rng.Intn(49500)),
			PlacedAt:    now.AddDate(0, 0, -rng.Intn(90)),
		}
	}
	if err := gormDB.WithContext(ctx).Create(&orders).Error; err != nil {
		return fmt.Errorf("failed to seed orders: %w", err)
	}

	return nil
}

func createViews(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE VIEW active_customers AS
SELECT id, name, region FROM customers WHERE active`,

		`CREATE MATERIALIZED VIEW customer_totals AS
SELECT c.id AS customer_id,
       c.name,
       c.region,
       COALESCE(SUM(o.amount_cents), 0) AS total_cents,
       COUNT(o.id) AS orders
FROM active_customers c
LEFT JOIN orders o ON o.customer_id = c.id
GROUP BY c.id, c.name, c.region`,

		`CREATE UNIQUE INDEX customer_totals_customer_id_idx
ON customer_totals (customer_id)`,

		`CREATE VIEW big_spenders AS
SELECT customer_id, name, total_cents
FROM customer_totals
WHERE total_cents > 500000`,

		`CREATE MATERIALIZED VIEW region_totals AS
SELECT region,
       SUM(total_cents) AS total_cents,
       COUNT(*) AS customers
FROM customer_totals
GROUP BY region`,
	}

	for _, sql := range stmts {
		if _, err := pool.Exec(ctx, sql); err != nil {
			return fmt.Errorf("failed to create demo view: %w", err)
		}
	}

	return nil
}
