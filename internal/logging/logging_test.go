package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"loud":    slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestLoggerStdoutOnly(t *testing.T) {
	var buf bytes.Buffer
	log, closer := newLogger(&buf, Params{Level: "warn"})
	defer closer.Close()

	log.Info("hidden")
	log.Warn("shown", "set", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "set=2")
}

func TestLoggerTeesToFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "ironlog")

	log, closer := newLogger(&buf, Params{Level: "info", File: path})
	log.Info("workout saved", "id", "abc")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path + ".log")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "workout saved"))
	assert.Contains(t, buf.String(), "workout saved")
}

func TestSetupFileOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.log")

	log, closer := SetupFile(Params{Level: "debug", File: path})
	log.Debug("set toggled")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "set toggled")
}

func TestSetupFileDiscardsWithoutFile(t *testing.T) {
	log, closer := SetupFile(Params{})
	log.Info("dropped")
	assert.NoError(t, closer.Close())
}
