package iocatalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trellisdb/trellis/internal/iocatalog"
	"github.com/trellisdb/trellis/internal/iodb"
	"github.com/trellisdb/trellis/internal/iotesting"
	"github.com/trellisdb/trellis/pkg/catalog"
	"github.com/trellisdb/trellis/pkg/db"
)

// Integration tests; they require PostgreSQL and the trellis_test
// database. Skip with go test -short.

// setupFixture resets trellis_test and builds the fixture schema plus
// a small view graph:
//
//	accounts, ledger_entries        (tables)
//	active_accounts                 (view over accounts, level 0)
//	account_totals                  (matview over active_accounts, level 1)
//	account_totals_id_idx           (unique index on the matview)
//	refuse_insert                   (INSTEAD OF trigger on the view)
func setupFixture(t *testing.T) (context.Context, db.Operator) {
	t.Helper()

	ctx := context.Background()
	op := iodb.NewPgxOperator()

	err := op.Connect(ctx, iotesting.GetTestDatabaseConfig())
	require.NoError(t, err)
	t.Cleanup(func() { op.Close() })

	require.NoError(t, iotesting.ResetDatabase(ctx, op.Pool()))
	require.NoError(t, iotesting.CreateFixtureSchema(ctx, op.Pool()))

	stmts := []string{
		`CREATE VIEW active_accounts AS
		 SELECT id, name FROM accounts WHERE active`,
		`CREATE MATERIALIZED VIEW account_totals AS
		 SELECT a.id, a.name, sum(l.amount) AS total
		 FROM active_accounts a
		 JOIN ledger_entries l ON l.account_id = a.id
		 GROUP BY a.id, a.name`,
		`CREATE UNIQUE INDEX account_totals_id_idx
		 ON account_totals (id)`,
		`CREATE TRIGGER refuse_insert
		 INSTEAD OF INSERT ON active_accounts
		 FOR EACH ROW EXECUTE FUNCTION fixture_refuse_write()`,
	}
	for _, stmt := range stmts {
		_, err = op.Pool().Exec(ctx, stmt)
		require.NoError(t, err, stmt)
	}

	return ctx, op
}

func TestListViews(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx, op := setupFixture(t)
	intro := iocatalog.New(op.Pool())

	views, err := intro.ListViews(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)

	byName := make(map[string]catalog.View, len(views))
	for _, v := range views {
		byName[v.Name] = v
	}

	plain, ok := byName["active_accounts"]
	require.True(t, ok)
	assert.False(t, plain.Materialized)
	assert.Equal(t, "public", plain.Namespace)
	assert.Contains(t, plain.Definition, "FROM accounts")
	assert.NotContains(t, plain.Definition, ";",
		"definitions must come back without statement terminator")

	mat, ok := byName["account_totals"]
	require.True(t, ok)
	assert.True(t, mat.Materialized)
	assert.Contains(t, mat.Definition, "active_accounts")
}

func TestListIndexes(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx, op := setupFixture(t)
	intro := iocatalog.New(op.Pool())

	indexes, err := intro.ListIndexes(ctx, "account_totals")
	require.NoError(t, err)
	require.Len(t, indexes, 1)

	idx := indexes[0]
	assert.Equal(t, "account_totals_id_idx", idx.Name)
	assert.Equal(t, "account_totals", idx.Object)
	assert.Equal(t, "public", idx.Namespace)
	assert.Contains(t, idx.Definition, "CREATE UNIQUE INDEX")

	// No indexes on a plain view.
	indexes, err = intro.ListIndexes(ctx, "active_accounts")
	require.NoError(t, err)
	assert.Empty(t, indexes)
}

func TestListTriggers(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx, op := setupFixture(t)
	intro := iocatalog.New(op.Pool())

	triggers, err := intro.ListTriggers(ctx, "active_accounts")
	require.NoError(t, err)
	require.Len(t, triggers, 1)

	trg := triggers[0]
	assert.Equal(t, "refuse_insert", trg.Name)
	assert.Equal(t, "active_accounts", trg.Table)
	assert.Equal(t, "INSERT", trg.Event)
	assert.Equal(t, "ROW", trg.Scope)
	assert.Equal(t, "INSTEAD OF", trg.Timing)
	assert.Contains(t, trg.Action, "fixture_refuse_write")

	// The synthesized DDL must be replayable.
	_, err = op.Pool().Exec(ctx, "DROP TRIGGER refuse_insert ON active_accounts")
	require.NoError(t, err)
	_, err = op.Pool().Exec(ctx, trg.Definition(iodb.QuoteIdent))
	assert.NoError(t, err, "synthesized trigger DDL should execute")
}

func TestViewLevels(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx, op := setupFixture(t)
	intro := iocatalog.New(op.Pool())

	levels, err := intro.ViewLevels(ctx)
	require.NoError(t, err)
	require.Len(t, levels, 2)

	byName := make(map[string]int, len(levels))
	for _, dl := range levels {
		byName[dl.Name] = dl.Level
	}

	assert.Equal(t, 0, byName["active_accounts"])
	assert.Equal(t, 1, byName["account_totals"])
}

func TestViewLevels_DiamondTakesMax(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx, op := setupFixture(t)
	intro := iocatalog.New(op.Pool())

	// summary reaches active_accounts directly (depth 1) and through
	// account_totals (depth 2); the deepest path wins.
	_, err := op.Pool().Exec(ctx, `CREATE VIEW summary AS
		SELECT a.name, t.total
		FROM active_accounts a
		JOIN account_totals t ON t.id = a.id`)
	require.NoError(t, err)

	levels, err := intro.ViewLevels(ctx)
	require.NoError(t, err)

	byName := make(map[string]int, len(levels))
	for _, dl := range levels {
		byName[dl.Name] = dl.Level
	}

	assert.Equal(t, 2, byName["summary"])
}

func TestMaterializedDependents(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx, op := setupFixture(t)
	intro := iocatalog.New(op.Pool())

	deps, err := intro.MaterializedDependents(ctx, "active_accounts")
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, "account_totals", deps[0].Name)
	assert.Equal(t, 1, deps[0].Level)

	// A leaf has no dependents, and never includes itself.
	deps, err = intro.MaterializedDependents(ctx, "account_totals")
	require.NoError(t, err)
	assert.Empty(t, deps)
}
