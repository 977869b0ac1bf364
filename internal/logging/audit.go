package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// =============================================================================
// AUDIT EVENT TYPES
// =============================================================================

// AuditEvent names a change to the user's health records or a disclosure of
// them. The audit trail is kept apart from the diagnostic log so it survives
// log level and category settings.
type AuditEvent string

const (
	// Record changes
	AuditMealCreated  AuditEvent = "meal_created"
	AuditMealUpdated  AuditEvent = "meal_updated"
	AuditMealDeleted  AuditEvent = "meal_deleted"
	AuditHealthLogged AuditEvent = "health_logged"
	AuditSleepLogged  AuditEvent = "sleep_logged"

	// Disclosure
	AuditMealsShared   AuditEvent = "meals_shared"
	AuditMealsExported AuditEvent = "meals_exported"
)

// =============================================================================
// AUDITOR
// =============================================================================

// Auditor appends one JSON line per event to the audit file:
//
//	{"ts":"2024-06-10T09:00:00.000Z","event":"meals_shared","recipient":"dr@example.com","meals":4}
//
// A nil *Auditor discards events, so components can record unconditionally.
type Auditor struct {
	log  *zap.Logger
	file *lumberjack.Logger
}

// NewAuditor opens (or creates) the audit file at path.
func NewAuditor(path string, maxSizeMB, maxBackups int) (*Auditor, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create audit directory: %w", err)
	}
	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    orDefault(maxSizeMB, 10),
		MaxBackups: orDefault(maxBackups, 3),
	}
	enc := zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:        "ts",
		MessageKey:     "event",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	})
	core := zapcore.NewCore(enc, zapcore.AddSync(file), zapcore.DebugLevel)
	return &Auditor{log: zap.New(core), file: file}, nil
}

// NewAuditorFromCore records into core instead of a file.
func NewAuditorFromCore(core zapcore.Core) *Auditor {
	return &Auditor{log: zap.New(core)}
}

// Record writes event with its details.
func (a *Auditor) Record(event AuditEvent, fields ...zap.Field) {
	if a == nil {
		return
	}
	a.log.Info(string(event), fields...)
}

// Close flushes and closes the audit file.
func (a *Auditor) Close() error {
	if a == nil {
		return nil
	}
	_ = a.log.Sync()
	if a.file != nil {
		return a.file.Close()
	}
	return nil
}
