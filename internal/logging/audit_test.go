package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"htrack/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestAuditor_WritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit", "audit.log")
	a, err := NewAuditor(path, 0, 0)
	require.NoError(t, err)

	a.Record(AuditMealsShared, zap.String("recipient", "dr@example.com"), zap.Int("meals", 4))
	a.Record(AuditMealDeleted, zap.Int("meal_id", 3))
	require.NoError(t, a.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"event":"meals_shared"`)
	assert.Contains(t, lines[0], `"recipient":"dr@example.com"`)
	assert.Contains(t, lines[0], `"ts":`)
	assert.NotContains(t, lines[0], `"level"`)
	assert.Contains(t, lines[1], `"meal_id":3`)
}

func TestAuditor_NilDiscards(t *testing.T) {
	var a *Auditor
	a.Record(AuditMealCreated)
	assert.NoError(t, a.Close())
}

func TestAuditor_IgnoresLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	l, err := New(config.LoggingConfig{Level: "error", AuditFile: path}, nil, false)
	require.NoError(t, err)
	require.NotNil(t, l.Audit())

	l.Audit().Record(AuditSleepLogged, zap.String("date", "2024-06-10"))
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sleep_logged")
}

func TestAuditor_FromCore(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	a := NewAuditorFromCore(core)

	a.Record(AuditMealsExported, zap.String("path", "meals.csv"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "meals_exported", entry.Message)
	assert.Equal(t, "meals.csv", entry.ContextMap()["path"])
}
