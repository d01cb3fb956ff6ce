package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gifloop/internal/services"
)

func TestNewJSONWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "gifloop.log")
	logger, err := New(Options{Level: "info", Format: "json", OutputPaths: []string{path}})
	require.NoError(t, err)
	logger.Info("analysis complete", String(FieldComponent, "loop"), Int("pairs", 12))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry), "decode %q", data)
	assert.Equal(t, "analysis complete", entry["msg"])
	assert.Equal(t, "info", entry["level"], "level is lowercase")
	assert.Contains(t, entry, "ts")
	assert.Equal(t, float64(12), entry["pairs"])
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestNewColorFormatToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "color.log")
	logger, err := New(Options{Format: "color", OutputPaths: []string{path}})
	require.NoError(t, err)
	logger.Info("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.NotContains(t, string(data), "\x1b[", "no ANSI escapes when writing to a file")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"warn":    slog.LevelWarn,
		" error ": slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for input, want := range cases {
		assert.Equal(t, want, ParseLevel(input), "ParseLevel(%q)", input)
	}
}

func TestConsoleHandlerFormatsComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newConsoleHandler(&buf, new(slog.LevelVar), false))
	logger = NewComponentLogger(logger, "cache")
	logger.Info("cache opened", String("path", "/tmp/my results.db"), Int("rows", 3))

	line := buf.String()
	assert.Contains(t, line, " INFO cache: cache opened")
	assert.Contains(t, line, `path="/tmp/my results.db"`)
	assert.Contains(t, line, "rows=3")
	assert.NotContains(t, line, "component=", "component is rendered as prefix only")
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)
	logger := slog.New(newConsoleHandler(&buf, lvl, false))
	logger.Info("hidden")
	logger.Debug("hidden")
	assert.Zero(t, buf.Len(), "no output below warn")

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "WARN shown")
}

func TestConsoleHandlerGroupsFlatten(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newConsoleHandler(&buf, new(slog.LevelVar), false))
	logger.WithGroup("pair").Info("scored", Int("from", 1), Int("to", 9))
	assert.Contains(t, buf.String(), "pair.from=1 pair.to=9")
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newConsoleHandler(&buf, new(slog.LevelVar), false))
	WarnWithContext(logger, "palette reused", "palette_reused", String(FieldImpact, "stale palette"))
	line := buf.String()
	for _, want := range []string{"event_type=palette_reused", `error_hint="check logs for details"`, `impact="stale palette"`} {
		assert.Contains(t, line, want)
	}
}

func TestWarnWithContextNilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		WarnWithContext(nil, "ignored", "noop")
		ErrorWithContext(nil, "ignored", "noop", Error(errors.New("boom")))
	})
}

func TestWithContextAddsRunID(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(newConsoleHandler(&buf, new(slog.LevelVar), false))
	ctx := services.WithRunID(context.Background(), "run-42")
	ctx = services.WithComponent(ctx, "analyzer")
	WithContext(ctx, base).Info("started")

	line := buf.String()
	assert.Contains(t, line, "analyzer: started")
	assert.Contains(t, line, "run_id=run-42")
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
	assert.NotPanics(t, func() { logger.Error("nothing") })
}
