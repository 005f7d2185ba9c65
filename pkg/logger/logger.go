package logger

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

var defaultLogger *log.Logger

func init() {
	defaultLogger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "pgproto3cli",
	})
}

// Config selects the destination, level, and wire-format of the
// default logger. It mirrors internal/config.LogConfig so cmd/pgproto3cli
// can hand its loaded config straight to Init.
type Config struct {
	Level  string
	Format string
	File   string
}

// Init reconfigures the default logger from cfg, redirecting to cfg.File
// when set and switching to JSON output for machine-consumed log
// shipping (cfg.Format == "json"). It must run before any connection or
// protocol event is logged, since pgproto3cli issues its first log line
// while dialing.
func Init(cfg Config) error {
	w := os.Stderr
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("logger: open %s: %w", cfg.File, err)
		}
		w = f
	}

	opts := log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "pgproto3cli",
	}
	if cfg.Format == "json" {
		opts.Formatter = log.JSONFormatter
	}

	defaultLogger = log.NewWithOptions(w, opts)
	SetLevel(cfg.Level)
	return nil
}

// SetLevel sets the log level
func SetLevel(level string) {
	switch level {
	case "debug":
		defaultLogger.SetLevel(log.DebugLevel)
	case "info":
		defaultLogger.SetLevel(log.InfoLevel)
	case "warn":
		defaultLogger.SetLevel(log.WarnLevel)
	case "error":
		defaultLogger.SetLevel(log.ErrorLevel)
	}
}

// Debug logs at the "debug" level
func Debug(msg string, keyvals ...interface{}) {
	defaultLogger.Debug(msg, keyvals...)
}

// Info logs at the "info" level
func Info(msg string, keyvals ...interface{}) {
	defaultLogger.Info(msg, keyvals...)
}

// Warn logs at the "warn" level
func Warn(msg string, keyvals ...interface{}) {
	defaultLogger.Warn(msg, keyvals...)
}

// Error logs at the "error" level
func Error(msg string, keyvals ...interface{}) {
	defaultLogger.Error(msg, keyvals...)
}

// Fatal logs and exits
func Fatal(msg string, keyvals ...interface{}) {
	defaultLogger.Fatal(msg, keyvals...)
}

// With returns a logger with additional context
func With(keyvals ...interface{}) *log.Logger {
	return defaultLogger.With(keyvals...)
}
