package iodb

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trellisdb/trellis/pkg/db"
)

// Contract checks: the pgx implementations satisfy the pkg/db
// interfaces.
var (
	_ db.Operator = &pgxOperator{}
	_ db.Session  = &pgxSession{}
	_ db.Conn     = &pgxPoolConn{}
)

func TestClassify(t *testing.T) {
	t.Run("nil error stays nil", func(t *testing.T) {
		assert.Nil(t, classify("SELECT 1", nil))
	})

	t.Run("server error becomes StatementError", func(t *testing.T) {
		pgErr := &pgconn.PgError{
			Code:    "42P01",
			Message: `relation "missing" does not exist`,
		}

		err := classify("DROP VIEW missing", pgErr)

		var stmtErr *db.StatementError
		require.True(t, errors.As(err, &stmtErr),
			"server errors must be classified as StatementError")
		assert.Equal(t, "DROP VIEW missing", stmtErr.SQL)
		assert.ErrorIs(t, err, pgErr)
	})

	t.Run("wrapped server error is still classified", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "42601"}
		wrapped := errors.Join(errors.New("exec"), pgErr)

		err := classify("SELECN 1", wrapped)

		var stmtErr *db.StatementError
		assert.True(t, errors.As(err, &stmtErr))
	})

	t.Run("context cancellation passes through", func(t *testing.T) {
		err := classify("SELECT 1", context.Canceled)

		assert.ErrorIs(t, err, context.Canceled)
		var stmtErr *db.StatementError
		assert.False(t, errors.As(err, &stmtErr),
			"context faults must never look like rejected statements")
	})

	t.Run("transport fault passes through", func(t *testing.T) {
		cause := errors.New("unexpected EOF")

		err := classify("SELECT 1", cause)

		assert.Same(t, cause, err)
	})
}

func TestQuoteIdent(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple name",
			input:    "users",
			expected: `"users"`,
		},
		{
			name:     "schema qualified",
			input:    "public.users",
			expected: `"public"."users"`,
		},
		{
			name:     "uppercase preserved",
			input:    "ActiveUsers",
			expected: `"ActiveUsers"`,
		},
		{
			name:     "embedded quote escaped",
			input:    `we"ird`,
			expected: `"we""ird"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, QuoteIdent(tt.input))
		})
	}
}
