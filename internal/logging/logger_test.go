package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"htrack/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_ConsoleRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(config.LoggingConfig{Level: "warn"}, zapcore.AddSync(&buf), false)
	require.NoError(t, err)

	l.For(CategoryAPI).Info("hidden")
	l.For(CategoryAPI).Warn("shown", zap.String("path", "/meals/"))
	require.NoError(t, l.Close())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "api")
}

func TestNew_VerboseForcesDebug(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(config.LoggingConfig{Level: "error"}, zapcore.AddSync(&buf), true)
	require.NoError(t, err)

	l.Root().Debug("debug line")
	assert.Contains(t, buf.String(), "debug line")
}

func TestNew_FileSinkWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "htrack.log")
	l, err := New(config.LoggingConfig{Level: "info", File: path}, nil, false)
	require.NoError(t, err)

	l.For(CategoryAuth).Info("logged in", zap.String("user", "dana"))
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	assert.True(t, strings.HasPrefix(line, "{"), "expected JSON line, got %q", line)
	assert.Contains(t, line, `"logger":"auth"`)
	assert.Contains(t, line, `"user":"dana"`)
}

func TestFor_DisabledCategoryIsNop(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.LoggingConfig{Level: "debug", Categories: map[string]bool{"history": false}}
	l, err := New(cfg, zapcore.AddSync(&buf), false)
	require.NoError(t, err)

	l.For(CategoryHistory).Error("should not appear")
	l.For(CategoryForms).Info("visible")

	assert.NotContains(t, buf.String(), "should not appear")
	assert.Contains(t, buf.String(), "visible")
}

func TestNew_NoSinksIsNop(t *testing.T) {
	l, err := New(config.LoggingConfig{}, nil, false)
	require.NoError(t, err)
	assert.False(t, l.Root().Core().Enabled(zapcore.ErrorLevel))
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(config.LoggingConfig{Level: "chatty"}, nil, false)
	assert.Error(t, err)
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(config.LoggingConfig{Level: "error"}, zapcore.AddSync(&buf), false)
	require.NoError(t, err)

	l.Root().Info("before")
	require.NoError(t, l.SetLevel("info"))
	l.Root().Info("after")

	assert.NotContains(t, buf.String(), "before")
	assert.Contains(t, buf.String(), "after")
	assert.Error(t, l.SetLevel("nope"))
}
