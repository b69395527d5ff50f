package catalog

// Index describes an index attached to a table or materialized view.
// Definition carries the complete CREATE INDEX statement as reported by
// the catalog, so restoration is a straight replay of the statement.
type Index struct {
	// Name is the index name.
	Name string

	// Object is the relation the index belongs to. An index belongs to
	// exactly one table or materialized view.
	Object string

	// Namespace is the schema of the owning relation.
	Namespace string

	// Definition is the full CREATE INDEX statement.
	Definition string
}
