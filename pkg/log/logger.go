package log

import (
	"context"
	"log/slog"
	"os"

	"github.com/YuminosukeSato/gomlcore/pkg/errors"
)

// SetupLogger installs a JSON slog handler on stdout as the slog default and
// routes all gomlcore loggers through it. Valid levels are "debug", "info",
// "warn" and "error".
func SetupLogger(loglevel string) error {
	level, err := ParseLevel(loglevel)
	if err != nil {
		return err
	}
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     slog.Level(level),
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				attr = slog.Attr{Key: "severity", Value: attr.Value}
			case slog.MessageKey:
				attr = slog.Attr{Key: "message", Value: attr.Value}
			}
			return attr
		},
	}
	handler := WrapByErrFmtHandler(slog.NewJSONHandler(os.Stdout, &ops))
	slog.SetDefault(slog.New(handler))
	SetProvider(NewSlogProvider(handler, level))
	return nil
}

// ParseLevel converts a level name to a Level.
func ParseLevel(level string) (Level, error) {
	switch level {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return 0, errors.NewValidationError("log_level", "must be one of debug, info, warn, error", level)
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}

// SlogProvider adapts a slog.Handler to LoggerProvider.
type SlogProvider struct {
	handler slog.Handler
	level   *slog.LevelVar
}

// NewSlogProvider wraps handler. The provider applies its own level filter on
// top of whatever the handler does.
func NewSlogProvider(handler slog.Handler, level Level) *SlogProvider {
	lv := &slog.LevelVar{}
	lv.Set(slog.Level(level))
	return &SlogProvider{handler: handler, level: lv}
}

// GetLogger implements LoggerProvider.
func (p *SlogProvider) GetLogger() Logger {
	return &slogLogger{l: slog.New(p.handler), level: p.level}
}

// GetLoggerWithName implements LoggerProvider.
func (p *SlogProvider) GetLoggerWithName(name string) Logger {
	return &slogLogger{l: slog.New(p.handler).With("logger", name), level: p.level}
}

// SetLevel implements LoggerProvider.
func (p *SlogProvider) SetLevel(level Level) {
	p.level.Set(slog.Level(level))
}

type slogLogger struct {
	l     *slog.Logger
	level *slog.LevelVar
}

func (s *slogLogger) Debug(msg string, fields ...any) { s.log(LevelDebug, msg, fields) }

func (s *slogLogger) Info(msg string, fields ...any) { s.log(LevelInfo, msg, fields) }

func (s *slogLogger) Warn(msg string, fields ...any) { s.log(LevelWarn, msg, fields) }

func (s *slogLogger) Error(msg string, fields ...any) { s.log(LevelError, msg, fields) }

func (s *slogLogger) With(fields ...any) Logger {
	return &slogLogger{l: s.l.With(fields...), level: s.level}
}

func (s *slogLogger) Enabled(ctx context.Context, level Level) bool {
	return slog.Level(level) >= s.level.Level() && s.l.Enabled(ctx, slog.Level(level))
}

func (s *slogLogger) log(level Level, msg string, fields []any) {
	ctx := context.Background()
	if !s.Enabled(ctx, level) {
		return
	}
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			fields = append([]any{ErrAttr(err)}, fields[1:]...)
		}
	}
	s.l.Log(ctx, slog.Level(level), msg, fields...)
}
