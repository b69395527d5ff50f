package db

import "fmt"

// StatementError reports a statement the server rejected. Conn
// implementations wrap server-side execution failures in it; transport
// faults and context cancellation pass through unwrapped. The engine relies
// on this split at savepoint boundaries: only a *StatementError may be
// swallowed during best-effort restoration, everything else propagates.
type StatementError struct {
	// SQL is the statement that failed.
	SQL string

	// Err is the server-reported error.
	Err error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("statement failed: %v", e.Err)
}

func (e *StatementError) Unwrap() error { return e.Err }
