package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRootCommand_HasSubcommands verifies every workflow is reachable
// from the root command.
func TestRootCommand_HasSubcommands(t *testing.T) {
	cmd := getRootCmd()
	require.NotNil(t, cmd, "Root command should exist")

	found := map[string]bool{}
	for _, c := range cmd.Commands() {
		found[c.Name()] = true
	}

	for _, name := range []string{
		"init", "update", "refresh", "apply", "dump", "views",
	} {
		assert.True(t, found[name], "%s subcommand should exist", name)
	}
}

// TestRootCommand_ConfigFlag verifies the persistent --config flag.
func TestRootCommand_ConfigFlag(t *testing.T) {
	cmd := getRootCmd()

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag, "--config flag should exist")
	assert.Equal(t, "string", configFlag.Value.Type(),
		"--config should be string type")
}

// TestRootCommand_Help verifies help text includes usage. Help is
// served before any hook runs, so no config or directories are
// touched.
func TestRootCommand_Help(t *testing.T) {
	cmd := getRootCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})
	err := cmd.Execute()
	require.NoError(t, err)

	helpText := buf.String()
	assert.Contains(t, helpText, "trellis", "Help should mention trellis")
	assert.Contains(t, helpText, "materialized",
		"Help should mention materialized views")
	assert.Contains(t, helpText, "Available Commands",
		"Help should list commands")
}

// TestRootCommand_VersionFlag verifies --version output.
func TestRootCommand_VersionFlag(t *testing.T) {
	cmd := getRootCmd()
	cmd.Version = "test-version"

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--version"})
	err := cmd.Execute()
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "test-version",
		"Version output should contain version string")
}

// TestRootCommand_RejectsUnknownCommand verifies unknown subcommands
// fail instead of silently printing help.
func TestRootCommand_RejectsUnknownCommand(t *testing.T) {
	cmd := getRootCmd()

	buf := new(bytes.Buffer)
	cmd.SetErr(buf)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"bogus"})
	err := cmd.Execute()

	require.Error(t, err, "Root command should reject unknown subcommands")
	assert.True(t, strings.Contains(err.Error(), "unknown"),
		"Error should mention unknown command, got: %s", err.Error())
}

// TestRootCommand_SubcommandsInheritConfigFlag verifies --config is
// available below the root.
func TestRootCommand_SubcommandsInheritConfigFlag(t *testing.T) {
	cmd := getRootCmd()

	for _, c := range cmd.Commands() {
		if c.Name() == "apply" {
			inherited := c.InheritedFlags().Lookup("config")
			assert.NotNil(t, inherited, "apply should inherit --config")
			return
		}
	}
	t.Fatal("apply subcommand not found")
}

// TestDumpCommand_Flags verifies the dump command's output flag and
// connection overrides.
func TestDumpCommand_Flags(t *testing.T) {
	cmd := getRootCmd()

	for _, c := range cmd.Commands() {
		if c.Name() != "dump" {
			continue
		}
		assert.NotNil(t, c.Flags().Lookup("dir"), "--dir flag should exist")
		assert.NotNil(t, c.Flags().Lookup("host"), "--host flag should exist")
		return
	}
	t.Fatal("dump subcommand not found")
}

// TestViewsCommand_Flags verifies the views command accepts
// connection overrides.
func TestViewsCommand_Flags(t *testing.T) {
	cmd := getRootCmd()

	for _, c := range cmd.Commands() {
		if c.Name() != "views" {
			continue
		}
		assert.NotNil(t, c.Flags().Lookup("database"),
			"--database flag should exist")
		assert.NotNil(t, c.Flags().Lookup("ssl-mode"),
			"--ssl-mode flag should exist")
		return
	}
	t.Fatal("views subcommand not found")
}

// TestInitCommand_Exists verifies the init command structure.
func TestInitCommand_Exists(t *testing.T) {
	cmd := getInitCmd()

	require.NotNil(t, cmd, "init command should exist")
	assert.Equal(t, "init", cmd.Use)
	assert.NotNil(t, cmd.RunE, "RunE should be set")
	assert.Contains(t, cmd.Long, "trellis.yaml",
		"Long description should name the config file")
}

// TestGetRootCmd_IndependentInstances verifies each call returns an
// independent command tree.
func TestGetRootCmd_IndependentInstances(t *testing.T) {
	cmd1 := getRootCmd()
	cmd2 := getRootCmd()

	assert.NotSame(t, cmd1, cmd2, "Each call should return a new instance")

	cmd1.Short = "test1"
	cmd2.Short = "test2"
	assert.Equal(t, "test1", cmd1.Short)
	assert.Equal(t, "test2", cmd2.Short)
}
