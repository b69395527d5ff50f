package ioviews

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/trellisdb/trellis/pkg/db"
)

// restore attempts one captured definition isolated by a savepoint, the
// failure-isolation primitive the whole engine is built on. A statement
// the server rejects rolls back to the savepoint and returns
// (false, nil); the enclosing transaction stays intact and the caller
// reports the object as lost and moves on. Every other fault, including
// a failure of the savepoint statements themselves, propagates: a lost
// connection or a cancelled context must never be reported as "object
// dropped".
func restore(ctx context.Context, conn db.Conn, sql string) (bool, error) {
	sp := savepointName()
	if err := conn.Exec(ctx, "SAVEPOINT "+sp); err != nil {
		return false, err
	}
	if execErr := conn.Exec(ctx, sql); execErr != nil {
		var stmtErr *db.StatementError
		if !errors.As(execErr, &stmtErr) {
			return false, execErr
		}
		if err := conn.Exec(ctx, "ROLLBACK TO SAVEPOINT "+sp); err != nil {
			return false, err
		}
		return false, nil
	}
	if err := conn.Exec(ctx, "RELEASE SAVEPOINT "+sp); err != nil {
		return false, err
	}
	return true, nil
}

// savepointName returns a fresh identifier-safe savepoint name, unique
// per restoration attempt.
func savepointName() string {
	return "sp_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
