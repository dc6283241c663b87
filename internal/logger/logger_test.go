package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{in: "debug", want: zapcore.DebugLevel},
		{in: "INFO", want: zapcore.InfoLevel},
		{in: "warn", want: zapcore.WarnLevel},
		{in: "warning", want: zapcore.WarnLevel},
		{in: "error", want: zapcore.ErrorLevel},
		{in: "", want: zapcore.InfoLevel},
		{in: "bogus", want: zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestCapLevel(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{level: "debug", want: "debug"},
		{level: "info", want: "info"},
		{level: "", want: ""},
		{level: "warn", want: "info"},
		{level: "error", want: "info"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			got := Config{Level: tt.level, OutputPaths: []string{"stderr"}}.CapLevel("info")
			assert.Equal(t, tt.want, got.Level)
			assert.Equal(t, []string{"stderr"}, got.OutputPaths)
		})
	}
}

func TestCapLevelKeepsInfoAtErrorLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	cfg := Config{Level: "error", OutputPaths: []string{path}}

	service, err := New(cfg)
	require.NoError(t, err)
	service.Info("dropped")
	require.NoError(t, service.Sync())

	startup, err := New(cfg.CapLevel("info"))
	require.NoError(t, err)
	startup.Info("Cost Service starting", Int("port", 8007))
	require.NoError(t, startup.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"msg":"Cost Service starting"`)
}

func TestNewWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")

	log, err := New(Config{Level: "info", OutputPaths: []string{path}})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("Cost Service starting", Int("port", 8007))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Cost Service starting", entry["msg"])
	assert.EqualValues(t, 8007, entry["port"])
}

func TestNewInvalidOutputPath(t *testing.T) {
	_, err := New(Config{OutputPaths: []string{filepath.Join(t.TempDir(), "missing", "dir", "out.log")}})
	assert.Error(t, err)
}

func TestWithAttachesFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := NewFromZap(zap.New(core)).With(String("service", "cost"))

	log.Info("hello")
	log.Warn("careful")

	require.Equal(t, 2, logs.Len())
	for _, e := range logs.All() {
		assert.Equal(t, "cost", e.ContextMap()["service"])
	}
}

func TestNop(t *testing.T) {
	log := NewNop()
	log.Info("ignored")
	assert.Same(t, log, log.With(String("k", "v")))
	assert.NoError(t, log.Sync())
}
