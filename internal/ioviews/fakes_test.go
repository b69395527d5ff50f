package ioviews

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trellisdb/trellis/pkg/catalog"
	"github.com/trellisdb/trellis/pkg/db"
)

// fakeConn records every statement it executes and can reject chosen
// statements with a scripted error.
type fakeConn struct {
	stmts      []string
	failOn     map[string]error
	matviews   bool
	concurrent bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		failOn:     map[string]error{},
		matviews:   true,
		concurrent: true,
	}
}

// reject makes statements containing sub fail the way a session reports
// a server-rejected statement.
func (c *fakeConn) reject(sub string) {
	c.failOn[sub] = &db.StatementError{
		SQL: sub,
		Err: errors.New("rejected by fake"),
	}
}

func (c *fakeConn) Exec(_ context.Context, sql string, _ ...any) error {
	c.stmts = append(c.stmts, sql)
	for sub, err := range c.failOn {
		if strings.Contains(sql, sub) {
			return err
		}
	}
	return nil
}

func (c *fakeConn) Query(
	_ context.Context, _ string, _ ...any,
) (pgx.Rows, error) {
	return nil, errors.New("fakeConn does not serve queries")
}

func (c *fakeConn) QuoteIdent(name string) string {
	return `"` + name + `"`
}

func (c *fakeConn) SupportsMaterializedViews() bool { return c.matviews }

func (c *fakeConn) SupportsConcurrentRefreshes() bool { return c.concurrent }

// indexOf returns the position of the first recorded statement that
// contains sub, or -1.
func (c *fakeConn) indexOf(sub string) int {
	for i, sql := range c.stmts {
		if strings.Contains(sql, sub) {
			return i
		}
	}
	return -1
}

// has reports whether any recorded statement contains sub.
func (c *fakeConn) has(sub string) bool {
	return c.indexOf(sub) != -1
}

// fakeIntrospector serves canned catalog descriptors. ListViews pops
// results from a queue so tests can script the state before and after
// a cascading drop; the last element repeats.
type fakeIntrospector struct {
	viewsQueue [][]catalog.View
	indexes    map[string][]catalog.Index
	triggers   map[string][]catalog.Trigger
	levels     []catalog.DependencyLevel
	dependents map[string][]catalog.DependencyLevel
}

func (f *fakeIntrospector) ListViews(
	_ context.Context,
) ([]catalog.View, error) {
	if len(f.viewsQueue) == 0 {
		return nil, nil
	}
	views := f.viewsQueue[0]
	if len(f.viewsQueue) > 1 {
		f.viewsQueue = f.viewsQueue[1:]
	}
	return views, nil
}

func (f *fakeIntrospector) ListIndexes(
	_ context.Context, object string,
) ([]catalog.Index, error) {
	return f.indexes[object], nil
}

func (f *fakeIntrospector) ListTriggers(
	_ context.Context, object string,
) ([]catalog.Trigger, error) {
	return f.triggers[object], nil
}

func (f *fakeIntrospector) ViewLevels(
	_ context.Context,
) ([]catalog.DependencyLevel, error) {
	return f.levels, nil
}

func (f *fakeIntrospector) MaterializedDependents(
	_ context.Context, name string,
) ([]catalog.DependencyLevel, error) {
	return f.dependents[name], nil
}

// fakeNotifier collects reapplication reports.
type fakeNotifier struct {
	msgs []string
}

func (n *fakeNotifier) Say(msg string) {
	n.msgs = append(n.msgs, msg)
}

// assertSavepointsPaired checks that every SAVEPOINT in stmts is closed
// by exactly one RELEASE or ROLLBACK TO for the same name.
func assertSavepointsPaired(t *testing.T, stmts []string) {
	t.Helper()

	open := map[string]bool{}
	for _, sql := range stmts {
		switch {
		case strings.HasPrefix(sql, "ROLLBACK TO SAVEPOINT "):
			name := strings.TrimPrefix(sql, "ROLLBACK TO SAVEPOINT ")
			require.True(t, open[name],
				"ROLLBACK TO for unopened savepoint %s", name)
			delete(open, name)
		case strings.HasPrefix(sql, "RELEASE SAVEPOINT "):
			name := strings.TrimPrefix(sql, "RELEASE SAVEPOINT ")
			require.True(t, open[name],
				"RELEASE for unopened savepoint %s", name)
			delete(open, name)
		case strings.HasPrefix(sql, "SAVEPOINT "):
			name := strings.TrimPrefix(sql, "SAVEPOINT ")
			require.False(t, open[name], "savepoint %s reused", name)
			open[name] = true
		}
	}
	assert.Empty(t, open, "savepoints left open")
}
