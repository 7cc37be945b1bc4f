package slogutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelDebug, FormatHuman)

	logger.With("run", "r1").WithGroup("input").Info("loaded", "keys", 3)

	line := buf.String()
	assert.Contains(t, line, " [info] loaded | run=r1 input.keys=3\n")
}

func TestLineHandlerQuotesAndFlattens(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelDebug, FormatHuman)

	logger.Warn("load failed",
		"path", "/tmp/my docs/a.json",
		"error", errors.New("[FILE_NOT_FOUND] gone"),
		slog.Group("space", "required", 64, "ok", false),
		"empty", "",
	)

	assert.Contains(t, buf.String(),
		` [warn] load failed | path="/tmp/my docs/a.json" error="[FILE_NOT_FOUND] gone" space.required=64 space.ok=false empty=""`+"\n")
}

func TestLineHandlerNoAttrs(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, slog.LevelInfo, FormatHuman).Info("plain")

	assert.True(t, strings.HasSuffix(buf.String(), " [info] plain\n"))
}

func TestLineHandlerFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn, FormatHuman)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "[warn] shown")
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo, "JSON")
	logger.Info("hello", "file", "a.json")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "a.json", entry["file"])
}

func TestLevelFromString(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LevelFromString("DEBUG"))
	assert.Equal(t, slog.LevelInfo, LevelFromString("info"))
	assert.Equal(t, slog.LevelWarn, LevelFromString("warning"))
	assert.Equal(t, slog.LevelError, LevelFromString("error"))
	assert.Equal(t, silent, LevelFromString("off"))
	assert.Equal(t, slog.LevelWarn, LevelFromString("bogus"))

	assert.True(t, ValidLevel(" Info "))
	assert.False(t, ValidLevel("bogus"))
}

func TestDiscardLogger(t *testing.T) {
	logger := NewDiscardLogger()
	assert.False(t, logger.Enabled(t.Context(), slog.LevelError))
}
