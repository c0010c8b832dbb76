package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNew_FileOutputJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := New(Config{Level: "info", Format: "json", Output: path, Service: "finerp-backend", Env: "test"})
	require.NoError(t, err)

	l.Debug("filtered")
	l.Info("ledger ready")
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "ledger ready", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "finerp-backend", entry["service"])
	assert.Equal(t, "test", entry["env"])
}

func TestNew_TeesExtraCores(t *testing.T) {
	extra, recorded := observer.New(zapcore.WarnLevel)
	l, err := New(Config{Level: "debug", Format: "console", Output: "stderr"}, extra)
	require.NoError(t, err)

	l.Info("console only")
	l.Warn("both")

	require.Equal(t, 1, recorded.Len())
	assert.Equal(t, "both", recorded.All()[0].Message)
}

func TestNew_UnwritableFile(t *testing.T) {
	_, err := New(Config{Output: filepath.Join(t.TempDir(), "missing", "app.log")})
	assert.Error(t, err)
}
