package iologger

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trellisdb/trellis/pkg/config"
)

func TestInit_FileDestination(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}

	err := Init(tmpDir, cfg)
	require.NoError(t, err)

	slog.Info("hello", "component", "test")

	data, err := os.ReadFile(filepath.Join(tmpDir, "trellis.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"component":"test"`)
}

func TestInit_RewritesLogFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}

	require.NoError(t, Init(tmpDir, cfg))
	slog.Info("first run")

	require.NoError(t, Init(tmpDir, cfg))
	slog.Info("second run")

	data, err := os.ReadFile(filepath.Join(tmpDir, "trellis.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "second run")
	assert.NotContains(t, string(data), "first run",
		"Log file should be rewritten on every start")
}

func TestInit_LevelFilters(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := config.LogConfig{
		Format:      "json",
		Level:       "warn",
		Destination: "file",
	}

	require.NoError(t, Init(tmpDir, cfg))
	slog.Info("too quiet")
	slog.Warn("loud enough")

	data, err := os.ReadFile(filepath.Join(tmpDir, "trellis.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "too quiet")
	assert.Contains(t, string(data), "loud enough")
}

func TestInit_TextFormat(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := config.LogConfig{
		Format:      "text",
		Level:       "info",
		Destination: "file",
	}

	require.NoError(t, Init(tmpDir, cfg))
	slog.Info("plain message")

	data, err := os.ReadFile(filepath.Join(tmpDir, "trellis.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `msg="plain message"`)
}

func TestInit_StreamDestinations(t *testing.T) {
	for _, dest := range []string{"stdout", "stderr", "unknown"} {
		cfg := config.LogConfig{
			Format:      "text",
			Level:       "debug",
			Destination: dest,
		}
		assert.NoError(t, Init("", cfg), dest)
	}
}

func TestInit_MissingLogDir(t *testing.T) {
	cfg := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}

	err := Init(filepath.Join(t.TempDir(), "absent"), cfg)

	var logErr *LogFileError
	require.ErrorAs(t, err, &logErr)
	assert.Contains(t, logErr.Path, "trellis.log")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.level), tt.level)
	}
}
