package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"", zapcore.WarnLevel},
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := parseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := parseLevel("loud")
	assert.Error(t, err)
}

func TestNewWritesToFallback(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info"}, &buf)
	require.NoError(t, err)

	logger.Debugw("hidden")
	logger.Infow("tail started", "path", "/var/log/app.log")
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "tail started")
	assert.Contains(t, out, "/var/log/app.log")
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "ltail.log")
	logger, err := New(Config{Level: "debug", Path: path, MaxSize: 1}, nil)
	require.NoError(t, err)

	logger.Debugw("pass", "kind", "reload")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "pass")
}

func TestInitAndContext(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: "debug"}, &buf))
	t.Cleanup(func() {
		mu.Lock()
		global = zap.NewNop().Sugar()
		mu.Unlock()
	})

	L().Debug("global")
	assert.Contains(t, buf.String(), "global")

	scoped := zap.NewNop().Sugar()
	ctx := WithContext(context.Background(), scoped)
	assert.Same(t, scoped, Get(ctx))
	assert.Same(t, L(), Get(context.Background()))

	assert.Error(t, Init(Config{Level: "nope"}, &buf))
}
