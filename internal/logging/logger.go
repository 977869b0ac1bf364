// Package logging builds the zap logger used across htrack.
// Output goes to an optional console writer and an optional rotating file.
// Subsystems log through named child loggers that can be switched off per
// category in config.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"htrack/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot      Category = "boot"      // Startup, config
	CategoryAPI       Category = "api"       // REST calls
	CategoryAuth      Category = "auth"      // Login, refresh, logout
	CategorySession   Category = "session"   // Token persistence
	CategoryStore     Category = "store"     // Key-value storage
	CategoryDashboard Category = "dashboard" // Panel loading
	CategoryForms     Category = "forms"     // Form submission
	CategoryHistory   Category = "history"   // Meal history
	CategoryUI        Category = "ui"        // Terminal UI
)

// Logger owns the root zap logger and hands out per-category children.
type Logger struct {
	root   *zap.Logger
	level  zap.AtomicLevel
	cfg    config.LoggingConfig
	rotate *lumberjack.Logger
	audit  *Auditor
}

// New builds a logger from config. console may be nil, which is how the
// interactive UI keeps logs off the terminal. verbose forces debug level.
func New(cfg config.LoggingConfig, console zapcore.WriteSyncer, verbose bool) (*Logger, error) {
	lvl := zapcore.InfoLevel
	if cfg.Level != "" {
		parsed, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		lvl = parsed
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	atom := zap.NewAtomicLevelAt(lvl)

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	newEncoder := func() zapcore.Encoder {
		if strings.EqualFold(cfg.Format, "json") {
			return zapcore.NewJSONEncoder(encCfg)
		}
		return zapcore.NewConsoleEncoder(encCfg)
	}

	var cores []zapcore.Core
	if console != nil {
		cores = append(cores, zapcore.NewCore(newEncoder(), console, atom))
	}

	l := &Logger{level: atom, cfg: cfg}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		l.rotate = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    orDefault(cfg.MaxSizeMB, 10),
			MaxBackups: orDefault(cfg.MaxBackups, 3),
			MaxAge:     28,
			Compress:   true,
		}
		// Files always get JSON so they stay greppable.
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(l.rotate), atom))
	}

	if cfg.AuditFile != "" {
		a, err := NewAuditor(cfg.AuditFile, cfg.MaxSizeMB, cfg.MaxBackups)
		if err != nil {
			return nil, err
		}
		l.audit = a
	}

	if len(cores) == 0 {
		l.root = zap.NewNop()
		return l, nil
	}
	l.root = zap.New(zapcore.NewTee(cores...))
	return l, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{root: zap.NewNop(), level: zap.NewAtomicLevel()}
}

// Root returns the uncategorized logger.
func (l *Logger) Root() *zap.Logger {
	return l.root
}

// For returns the child logger for a category, or a no-op logger when the
// category is disabled.
func (l *Logger) For(cat Category) *zap.Logger {
	if !l.cfg.IsCategoryEnabled(string(cat)) {
		return zap.NewNop()
	}
	return l.root.Named(string(cat))
}

// Audit returns the audit trail, or nil when logging.audit_file is unset.
func (l *Logger) Audit() *Auditor {
	return l.audit
}

// SetLevel changes the level of every core at runtime.
func (l *Logger) SetLevel(level string) error {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}
	l.level.SetLevel(parsed)
	return nil
}

// Close flushes buffered entries and closes the rotating file.
func (l *Logger) Close() error {
	_ = l.root.Sync()
	err := l.audit.Close()
	if l.rotate != nil {
		if cerr := l.rotate.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
