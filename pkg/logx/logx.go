// Package logx is a thin structured-logging facade over zap. It exposes the
// package-level helpers the rest of the codebase uses so call sites never
// depend on the zap API directly.
package logx

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is the minimum severity a message needs to be emitted.
type Level = zapcore.Level

const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

// Fields carries structured key/value context for a log entry.
type Fields map[string]interface{}

var (
	atomicLevel = zap.NewAtomicLevelAt(LevelInfo)
	base        = newLogger()
)

func newLogger() *zap.SugaredLogger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var enc zapcore.Encoder
	if os.Getenv("LOG_FORMAT") == "json" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.Lock(os.Stdout), atomicLevel)
	return zap.New(core, zap.AddStacktrace(zapcore.FatalLevel)).Sugar()
}

// SetLevel changes the minimum level of the default logger.
func SetLevel(level Level) {
	atomicLevel.SetLevel(level)
}

// ParseLevel maps a LOG_LEVEL string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func Debug(msg string)                          { base.Debug(msg) }
func Info(msg string)                           { base.Info(msg) }
func Warn(msg string)                           { base.Warn(msg) }
func Error(msg string)                          { base.Error(msg) }
func Fatal(msg string)                          { base.Fatal(msg) }
func Debugf(format string, args ...interface{}) { base.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { base.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { base.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { base.Errorf(format, args...) }
func Fatalf(format string, args ...interface{}) { base.Fatalf(format, args...) }

// Entry is a logger with pre-attached fields.
type Entry struct {
	s *zap.SugaredLogger
}

// WithFields returns an Entry that includes the given fields on every message.
func WithFields(fields Fields) *Entry {
	kv := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	return &Entry{s: base.With(kv...)}
}

func (e *Entry) Debug(msg string)                          { e.s.Debug(msg) }
func (e *Entry) Info(msg string)                           { e.s.Info(msg) }
func (e *Entry) Warn(msg string)                           { e.s.Warn(msg) }
func (e *Entry) Error(msg string)                          { e.s.Error(msg) }
func (e *Entry) Infof(format string, args ...interface{})  { e.s.Infof(format, args...) }
func (e *Entry) Warnf(format string, args ...interface{})  { e.s.Warnf(format, args...) }
func (e *Entry) Errorf(format string, args ...interface{}) { e.s.Errorf(format, args...) }
