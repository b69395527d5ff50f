package catalog

import "fmt"

// Trigger describes a trigger as found in the database catalog. Its
// CREATE statement is always derived from these fields via Definition,
// never stored separately, so a restored trigger cannot drift from its
// descriptor.
type Trigger struct {
	// Name is the trigger name.
	Name string

	// Namespace is the schema of the relation the trigger is attached to.
	Namespace string

	// Table is the relation the trigger fires on (a table or a view).
	Table string

	// Event is the firing event: INSERT, UPDATE, DELETE or TRUNCATE.
	Event string

	// Action is the statement executed when the trigger fires, for
	// example "EXECUTE FUNCTION audit_change()".
	Action string

	// Scope is the firing granularity: ROW or STATEMENT.
	Scope string

	// Timing is BEFORE, AFTER or INSTEAD OF.
	Timing string
}

// Definition synthesizes the CREATE TRIGGER statement for the descriptor.
// Identifiers pass through quote; the remaining fields are catalog-reported
// keywords and SQL fragments, emitted verbatim.
func (t Trigger) Definition(quote func(string) string) string {
	return fmt.Sprintf(
		"CREATE TRIGGER %s %s %s ON %s FOR EACH %s %s",
		quote(t.Name), t.Timing, t.Event, quote(t.Table), t.Scope, t.Action,
	)
}

// Equal reports field-wise equality of two triggers.
func (t Trigger) Equal(other Trigger) bool {
	return t.Name == other.Name &&
		t.Namespace == other.Namespace &&
		t.Table == other.Table &&
		t.Event == other.Event &&
		t.Action == other.Action &&
		t.Scope == other.Scope &&
		t.Timing == other.Timing
}
