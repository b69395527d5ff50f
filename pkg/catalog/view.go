// Package catalog defines the immutable value records that describe the
// schema objects trellis manages: views, materialized views, their indexes
// and triggers, and the transient dependency levels used to order safe
// recreation.
//
// Descriptors are produced fresh by introspection on every call and are
// discarded after the operation that consumed them. Nothing in this package
// performs I/O.
package catalog

// View describes a view or materialized view as found in the database
// catalog.
type View struct {
	// Name is the bare relation name, unique within its namespace.
	Name string

	// Namespace is the schema the view lives in.
	Namespace string

	// Definition is the SQL body of the view (the SELECT statement
	// without the CREATE wrapper). It is opaque SQL: never parsed,
	// only replayed.
	Definition string

	// Materialized reports whether the relation is a materialized view.
	Materialized bool
}
