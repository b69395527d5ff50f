package main

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetRefreshCmd_Flags verifies the refresh command's flags.
func TestGetRefreshCmd_Flags(t *testing.T) {
	cmd := getRefreshCmd()

	for _, name := range []string{
		"concurrently", "cascade", "host", "port", "database",
	} {
		assert.NotNil(t, cmd.Flags().Lookup(name),
			"--%s flag should exist", name)
	}
}

// TestGetRefreshCmd_RequiresName verifies the view name is required.
func TestGetRefreshCmd_RequiresName(t *testing.T) {
	cmd := getRefreshCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

// TestGetRefreshCmd_DocumentsTransactionBehavior verifies the help
// explains that concurrent refreshes are not atomic.
func TestGetRefreshCmd_DocumentsTransactionBehavior(t *testing.T) {
	cmd := getRefreshCmd()

	assert.Contains(t, cmd.Long, "transaction block",
		"Long description should explain the autocommit behavior")
	assert.Contains(t, cmd.Long, "unique index",
		"Long description should name the concurrent refresh requirement")
}
