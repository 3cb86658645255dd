package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/YuminosukeSato/gomlcore/pkg/errors"
	"github.com/rs/zerolog"
)

var (
	providerMu sync.RWMutex
	provider   LoggerProvider = NewZerologProvider(os.Stderr, LevelWarn)
)

func init() {
	RegisterWarnings()
}

// GetLogger returns the default logger of the current provider.
func GetLogger() Logger {
	return currentProvider().GetLogger()
}

// GetLoggerWithName returns a logger tagged with name by the current provider.
func GetLoggerWithName(name string) Logger {
	return currentProvider().GetLoggerWithName(name)
}

// SetProvider replaces the package-level provider. Loggers already handed out
// keep writing to the provider that created them.
func SetProvider(p LoggerProvider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	provider = p
}

// SetLevel sets the minimum level of the current provider.
func SetLevel(level Level) {
	currentProvider().SetLevel(level)
}

func currentProvider() LoggerProvider {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return provider
}

// RegisterWarnings routes errors.Warn through the current provider. It is
// called on package initialisation; call it again after errors.SetWarningHandler
// to restore logging of warnings.
func RegisterWarnings() {
	errors.SetZerologWarnFunc(logWarning)
}

func logWarning(w error) {
	logger := GetLoggerWithName("warnings")
	if zl, ok := logger.(*zerologLogger); ok {
		if !zl.Enabled(context.Background(), LevelWarn) {
			return
		}
		if m, ok := w.(zerolog.LogObjectMarshaler); ok {
			zl.zl.Warn().Object("warning", m).Msg(w.Error())
			return
		}
	}
	logger.Warn(w.Error(), ErrorTypeKey, warningType(w))
}

// warningType returns the bare type name of w, e.g. "ConvergenceWarning".
func warningType(w error) string {
	name := fmt.Sprintf("%T", w)
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimPrefix(name, "*")
}

// ZerologProvider hands out loggers writing JSON lines through zerolog.
// All loggers share one level, so SetLevel affects loggers created earlier.
type ZerologProvider struct {
	base  zerolog.Logger
	level *atomic.Int64
}

// NewZerologProvider creates a provider writing to w.
func NewZerologProvider(w io.Writer, level Level) *ZerologProvider {
	lv := &atomic.Int64{}
	lv.Store(int64(level))
	return &ZerologProvider{
		base:  zerolog.New(w).With().Timestamp().Logger(),
		level: lv,
	}
}

// GetLogger implements LoggerProvider.
func (p *ZerologProvider) GetLogger() Logger {
	return &zerologLogger{zl: p.base, level: p.level}
}

// GetLoggerWithName implements LoggerProvider.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	return &zerologLogger{zl: p.base.With().Str("logger", name).Logger(), level: p.level}
}

// SetLevel implements LoggerProvider.
func (p *ZerologProvider) SetLevel(level Level) {
	p.level.Store(int64(level))
}

type zerologLogger struct {
	zl    zerolog.Logger
	level *atomic.Int64
}

func (l *zerologLogger) Debug(msg string, fields ...any) { l.log(LevelDebug, msg, fields) }

func (l *zerologLogger) Info(msg string, fields ...any) { l.log(LevelInfo, msg, fields) }

func (l *zerologLogger) Warn(msg string, fields ...any) { l.log(LevelWarn, msg, fields) }

func (l *zerologLogger) Error(msg string, fields ...any) { l.log(LevelError, msg, fields) }

func (l *zerologLogger) With(fields ...any) Logger {
	kv, _ := splitFields(fields)
	return &zerologLogger{zl: l.zl.With().Fields(kv).Logger(), level: l.level}
}

func (l *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return int64(level) >= l.level.Load()
}

func (l *zerologLogger) log(level Level, msg string, fields []any) {
	if !l.Enabled(context.Background(), level) {
		return
	}
	kv, err := splitFields(fields)
	e := l.zl.WithLevel(toZerologLevel(level))
	if err != nil {
		e = e.Err(err)
		if st := extractStacktrace(err); st != "" {
			e = e.Str(StacktraceAttrKey, st)
		}
	}
	e.Fields(kv).Msg(msg)
}

// splitFields separates a leading error from the key/value pairs. A dangling
// key is recorded with a nil value.
func splitFields(fields []any) (kv map[string]interface{}, err error) {
	if len(fields) > 0 {
		if e, ok := fields[0].(error); ok {
			err = e
			fields = fields[1:]
		}
	}
	kv = make(map[string]interface{}, len(fields)/2+1)
	for i := 0; i < len(fields); i += 2 {
		key := fmt.Sprint(fields[i])
		if i+1 < len(fields) {
			kv[key] = fields[i+1]
		} else {
			kv[key] = nil
		}
	}
	return kv, err
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}
