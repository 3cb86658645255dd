// Package log provides the structured logging used by gomlcore estimators.
//
// Estimators obtain a named logger from the package-level provider and attach
// their model name once:
//
//	logger := log.GetLoggerWithName("linear").With(
//	    log.ModelNameKey, "GDLinearRegression",
//	    log.ComponentKey, "linear",
//	)
//	logger.Info("Training started",
//	    log.OperationKey, log.OperationFit,
//	    log.SamplesKey, 1000,
//	    log.FeaturesKey, 5,
//	)
//
// The default provider writes JSON lines through zerolog to stderr at warn
// level. SetupLogger switches the library over to log/slog, and tests install
// a TestLoggerProvider to capture records.
package log

import (
	"context"
)

// Logger is a slog-compatible structured logger. Fields are alternating
// key/value pairs; Error additionally accepts an error as the first field.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)

	// With returns a logger that adds fields to every record.
	With(fields ...any) Logger

	// Enabled reports whether records at level would be emitted. Hot loops
	// such as the optimizer check this before building per-iteration fields.
	Enabled(ctx context.Context, level Level) bool
}

// Level is a logging level with slog.Level values.
type Level int

const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider creates loggers and controls their minimum level.
type LoggerProvider interface {
	GetLogger() Logger
	GetLoggerWithName(name string) Logger
	SetLevel(level Level)
}
