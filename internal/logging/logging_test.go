package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) config.LoggingConfig {
	t.Helper()
	cfg := config.DefaultConfig().Logging
	cfg.Dir = filepath.Join(t.TempDir(), "logs")
	return cfg
}

func TestNew_WritesToRotatingFile(t *testing.T) {
	cfg := testConfig(t)
	l, err := New(cfg, nil)
	require.NoError(t, err)

	l.Slog().Info("cache swept", "entries", 3)
	l.Debug("hidden at info level")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(filepath.Join(cfg.Dir, cfg.File))
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "cache swept")
	assert.Contains(t, out, "entries=3")
	assert.Contains(t, out, "suama")
	assert.NotContains(t, out, "hidden at info level")
}

func TestNew_MirrorsToStderr(t *testing.T) {
	cfg := testConfig(t)
	cfg.Stderr = true
	cfg.Level = "debug"

	var stderr bytes.Buffer
	l, err := New(cfg, &stderr)
	require.NoError(t, err)
	defer l.Close()

	l.Slog().Debug("store round trip", "op", "SumHours")
	assert.Contains(t, stderr.String(), "store round trip")
	assert.Contains(t, stderr.String(), "op=SumHours")
}

func TestNew_WithoutFileDiscards(t *testing.T) {
	cfg := testConfig(t)
	cfg.File = ""

	l, err := New(cfg, nil)
	require.NoError(t, err)
	l.Info("nowhere")
	assert.NoError(t, l.Close())

	_, err = os.Stat(cfg.Dir)
	assert.True(t, os.IsNotExist(err))
}

func TestNew_RejectsBadLevel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Level = "chatty"
	_, err := New(cfg, nil)
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"", log.InfoLevel},
		{"debug", log.DebugLevel},
		{" WARN ", log.WarnLevel},
		{"error", log.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("dropped")
	assert.False(t, l.Enabled(t.Context(), 12))
}
