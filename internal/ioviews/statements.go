package ioviews

import "fmt"

// Statement builders for the DDL the engine issues. Identifiers pass
// through the connection's quoter; definitions are opaque SQL and are
// emitted verbatim.

func createViewSQL(
	quote func(string) string,
	name, definition string,
	orReplace bool,
) string {
	if orReplace {
		return fmt.Sprintf(
			"CREATE OR REPLACE VIEW %s AS %s", quote(name), definition,
		)
	}
	return fmt.Sprintf("CREATE VIEW %s AS %s", quote(name), definition)
}

func dropViewSQL(
	quote func(string) string,
	name string,
	ifExists, cascade bool,
) string {
	sql := "DROP VIEW "
	if ifExists {
		sql += "IF EXISTS "
	}
	sql += quote(name)
	if cascade {
		sql += " CASCADE"
	}
	return sql
}

func createMaterializedViewSQL(
	quote func(string) string,
	name, definition string,
) string {
	return fmt.Sprintf(
		"CREATE MATERIALIZED VIEW %s AS %s", quote(name), definition,
	)
}

func dropMaterializedViewSQL(
	quote func(string) string,
	name string,
	ifExists, cascade bool,
) string {
	sql := "DROP MATERIALIZED VIEW "
	if ifExists {
		sql += "IF EXISTS "
	}
	sql += quote(name)
	if cascade {
		sql += " CASCADE"
	}
	return sql
}

func refreshSQL(
	quote func(string) string,
	name string,
	concurrently bool,
) string {
	if concurrently {
		return "REFRESH MATERIALIZED VIEW CONCURRENTLY " + quote(name)
	}
	return "REFRESH MATERIALIZED VIEW " + quote(name)
}
