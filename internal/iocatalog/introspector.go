// Package iocatalog implements db.Introspector over the PostgreSQL
// system catalogs. This is an impure I/O package that implements
// contracts defined in pkg/.
//
// All lookups are scoped to the relations visible in the active search
// path (current_schemas(false)) and skip extension-owned relations.
package iocatalog

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/trellisdb/trellis/pkg/catalog"
	"github.com/trellisdb/trellis/pkg/db"
)

// Querier is the query surface the introspector needs. Both db.Conn
// and *pgxpool.Pool satisfy it, so the same introspector serves engine
// snapshots inside a transaction and read-only tooling on the pool.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// introspector implements db.Introspector.
type introspector struct {
	q Querier
}

// New creates an Introspector that reads through q.
func New(q Querier) db.Introspector {
	return &introspector{q: q}
}

// listViewsQuery returns every view and materialized view in the
// search path. Extension-owned relations carry a pg_depend entry of
// deptype 'e' and are skipped.
const listViewsQuery = `
SELECT c.relname, n.nspname,
       pg_get_viewdef(c.oid, true),
       c.relkind = 'm'
FROM pg_catalog.pg_class c
JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
WHERE c.relkind IN ('v', 'm')
  AND n.nspname = ANY(current_schemas(false))
  AND NOT EXISTS (
    SELECT 1 FROM pg_catalog.pg_depend d
    WHERE d.objid = c.oid AND d.deptype = 'e'
  )
ORDER BY n.nspname, c.relname`

// ListViews returns every visible view and materialized view.
func (i *introspector) ListViews(
	ctx context.Context,
) ([]catalog.View, error) {
	rows, err := i.q.Query(ctx, listViewsQuery)
	if err != nil {
		return nil, NewIntrospectionError("list views", "", err)
	}
	defer rows.Close()

	var views []catalog.View
	for rows.Next() {
		var v catalog.View
		err := rows.Scan(&v.Name, &v.Namespace, &v.Definition, &v.Materialized)
		if err != nil {
			return nil, NewIntrospectionError("scan view", "", err)
		}
		v.Definition = normalizeViewDef(v.Definition)
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, NewIntrospectionError("list views", "", err)
	}

	return views, nil
}

// normalizeViewDef strips the statement terminator pg_get_viewdef
// appends; definitions are re-embedded after AS in CREATE statements.
func normalizeViewDef(def string) string {
	def = strings.TrimSpace(def)
	return strings.TrimSuffix(def, ";")
}

const listIndexesQuery = `
SELECT indexname, schemaname, indexdef
FROM pg_catalog.pg_indexes
WHERE tablename = $1
  AND schemaname = ANY(current_schemas(false))
ORDER BY indexname`

// ListIndexes returns the indexes attached to object. The definition
// is the complete CREATE INDEX statement as rendered by the catalog.
func (i *introspector) ListIndexes(
	ctx context.Context,
	object string,
) ([]catalog.Index, error) {
	rows, err := i.q.Query(ctx, listIndexesQuery, object)
	if err != nil {
		return nil, NewIntrospectionError("list indexes", object, err)
	}
	defer rows.Close()

	var indexes []catalog.Index
	for rows.Next() {
		idx := catalog.Index{Object: object}
		err := rows.Scan(&idx.Name, &idx.Namespace, &idx.Definition)
		if err != nil {
			return nil, NewIntrospectionError("scan index", object, err)
		}
		indexes = append(indexes, idx)
	}
	if err := rows.Err(); err != nil {
		return nil, NewIntrospectionError("list indexes", object, err)
	}

	return indexes, nil
}

// listTriggersQuery aggregates event_manipulation so a trigger firing
// on several events ("INSERT OR UPDATE") comes back as one descriptor,
// not one per event.
const listTriggersQuery = `
SELECT trigger_name, trigger_schema, event_object_table,
       string_agg(event_manipulation, ' OR ') AS event,
       action_statement, action_orientation, action_timing
FROM information_schema.triggers
WHERE event_object_table = $1
  AND trigger_schema = ANY(current_schemas(false))
GROUP BY trigger_name, trigger_schema, event_object_table,
         action_statement, action_orientation, action_timing
ORDER BY trigger_name`

// ListTriggers returns the triggers attached to object.
func (i *introspector) ListTriggers(
	ctx context.Context,
	object string,
) ([]catalog.Trigger, error) {
	rows, err := i.q.Query(ctx, listTriggersQuery, object)
	if err != nil {
		return nil, NewIntrospectionError("list triggers", object, err)
	}
	defer rows.Close()

	var triggers []catalog.Trigger
	for rows.Next() {
		var t catalog.Trigger
		err := rows.Scan(
			&t.Name, &t.Namespace, &t.Table,
			&t.Event, &t.Action, &t.Scope, &t.Timing,
		)
		if err != nil {
			return nil, NewIntrospectionError("scan trigger", object, err)
		}
		triggers = append(triggers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, NewIntrospectionError("list triggers", object, err)
	}

	return triggers, nil
}

// viewLevelsQuery walks the rewrite-rule dependency graph. Every view
// seeds at level 0; each pg_depend edge from a relation to a rewrite
// rule lifts the rule's view one level above that relation. A view is
// reported at the MAX level across all paths: creation must wait for
// the deepest prerequisite. The rule's own self-reference
// (ev_class = the view itself) is excluded or every view would recurse
// forever at +1.
//
// Matching is by bare relation name within the search path; equally
// named relations in different schemas are conflated. Kept
// deliberately: the intended scope is a single search path.
const viewLevelsQuery = `
WITH RECURSIVE deps AS (
  SELECT c.oid, 0 AS level
  FROM pg_catalog.pg_class c
  JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
  WHERE c.relkind IN ('v', 'm')
    AND n.nspname = ANY(current_schemas(false))
    AND NOT EXISTS (
      SELECT 1 FROM pg_catalog.pg_depend e
      WHERE e.objid = c.oid AND e.deptype = 'e'
    )
  UNION ALL
  SELECT r.ev_class, deps.level + 1
  FROM deps
  JOIN pg_catalog.pg_depend d
    ON d.refobjid = deps.oid
   AND d.refclassid = 'pg_class'::regclass
   AND d.classid = 'pg_rewrite'::regclass
   AND d.deptype = 'n'
  JOIN pg_catalog.pg_rewrite r ON r.oid = d.objid
  WHERE r.ev_class <> deps.oid
)
SELECT c.relname, MAX(deps.level)
FROM deps
JOIN pg_catalog.pg_class c ON c.oid = deps.oid
JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
WHERE c.relkind IN ('v', 'm')
  AND n.nspname = ANY(current_schemas(false))
GROUP BY c.relname`

// ViewLevels returns the dependency level of every visible view.
func (i *introspector) ViewLevels(
	ctx context.Context,
) ([]catalog.DependencyLevel, error) {
	return i.queryLevels(ctx, viewLevelsQuery)
}

// materializedDependentsQuery is the levels traversal seeded at one
// relation, restricted to materialized dependents. Levels count
// outward from the seed, which is itself excluded.
const materializedDependentsQuery = `
WITH RECURSIVE deps AS (
  SELECT c.oid, 0 AS level
  FROM pg_catalog.pg_class c
  JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
  WHERE c.relname = $1
    AND c.relkind IN ('v', 'm')
    AND n.nspname = ANY(current_schemas(false))
  UNION ALL
  SELECT r.ev_class, deps.level + 1
  FROM deps
  JOIN pg_catalog.pg_depend d
    ON d.refobjid = deps.oid
   AND d.refclassid = 'pg_class'::regclass
   AND d.classid = 'pg_rewrite'::regclass
   AND d.deptype = 'n'
  JOIN pg_catalog.pg_rewrite r ON r.oid = d.objid
  WHERE r.ev_class <> deps.oid
)
SELECT c.relname, MAX(deps.level)
FROM deps
JOIN pg_catalog.pg_class c ON c.oid = deps.oid
JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
WHERE c.relkind = 'm'
  AND c.relname <> $1
  AND n.nspname = ANY(current_schemas(false))
GROUP BY c.relname`

// MaterializedDependents returns the materialized views transitively
// dependent on name, excluding name itself.
func (i *introspector) MaterializedDependents(
	ctx context.Context,
	name string,
) ([]catalog.DependencyLevel, error) {
	return i.queryLevels(ctx, materializedDependentsQuery, name)
}

func (i *introspector) queryLevels(
	ctx context.Context,
	query string,
	args ...any,
) ([]catalog.DependencyLevel, error) {
	rows, err := i.q.Query(ctx, query, args...)
	if err != nil {
		return nil, NewIntrospectionError("view levels", "", err)
	}
	defer rows.Close()

	var levels []catalog.DependencyLevel
	for rows.Next() {
		var dl catalog.DependencyLevel
		if err := rows.Scan(&dl.Name, &dl.Level); err != nil {
			return nil, NewIntrospectionError("scan level", "", err)
		}
		levels = append(levels, dl)
	}
	if err := rows.Err(); err != nil {
		return nil, NewIntrospectionError("view levels", "", err)
	}

	return levels, nil
}
