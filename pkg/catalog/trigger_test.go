package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/trellisdb/trellis/pkg/catalog"
)

func quote(s string) string {
	return `"` + s + `"`
}

func TestTriggerDefinition(t *testing.T) {
	trg := catalog.Trigger{
		Name:   "searches_audit",
		Table:  "searches",
		Event:  "INSERT",
		Action: "EXECUTE FUNCTION audit_change()",
		Scope:  "ROW",
		Timing: "AFTER",
	}

	got := trg.Definition(quote)
	want := `CREATE TRIGGER "searches_audit" AFTER INSERT ` +
		`ON "searches" FOR EACH ROW EXECUTE FUNCTION audit_change()`
	assert.Equal(t, want, got)
}

func TestTriggerDefinitionInsteadOf(t *testing.T) {
	trg := catalog.Trigger{
		Name:   "writable_view_ins",
		Table:  "active_users",
		Event:  "INSERT",
		Action: "EXECUTE FUNCTION route_insert()",
		Scope:  "ROW",
		Timing: "INSTEAD OF",
	}

	got := trg.Definition(quote)
	want := `CREATE TRIGGER "writable_view_ins" INSTEAD OF INSERT ` +
		`ON "active_users" FOR EACH ROW EXECUTE FUNCTION route_insert()`
	assert.Equal(t, want, got)
}

func TestTriggerEqual(t *testing.T) {
	base := catalog.Trigger{
		Name:      "t1",
		Namespace: "public",
		Table:     "users",
		Event:     "UPDATE",
		Action:    "EXECUTE FUNCTION f()",
		Scope:     "ROW",
		Timing:    "BEFORE",
	}

	tests := []struct {
		name   string
		mutate func(catalog.Trigger) catalog.Trigger
		equal  bool
	}{
		{"identical", func(tr catalog.Trigger) catalog.Trigger { return tr }, true},
		{"name differs", func(tr catalog.Trigger) catalog.Trigger {
			tr.Name = "t2"
			return tr
		}, false},
		{"namespace differs", func(tr catalog.Trigger) catalog.Trigger {
			tr.Namespace = "audit"
			return tr
		}, false},
		{"table differs", func(tr catalog.Trigger) catalog.Trigger {
			tr.Table = "accounts"
			return tr
		}, false},
		{"event differs", func(tr catalog.Trigger) catalog.Trigger {
			tr.Event = "DELETE"
			return tr
		}, false},
		{"action differs", func(tr catalog.Trigger) catalog.Trigger {
			tr.Action = "EXECUTE FUNCTION g()"
			return tr
		}, false},
		{"scope differs", func(tr catalog.Trigger) catalog.Trigger {
			tr.Scope = "STATEMENT"
			return tr
		}, false},
		{"timing differs", func(tr catalog.Trigger) catalog.Trigger {
			tr.Timing = "AFTER"
			return tr
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := tt.mutate(base)
			assert.Equal(t, tt.equal, base.Equal(other))
			assert.Equal(t, tt.equal, other.Equal(base))
		})
	}
}
