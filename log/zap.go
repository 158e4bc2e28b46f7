package log

import (
	"context"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// thin wrapper around zap. Keeps call sites free of zap imports and
// provides a process-wide default logger plus named child loggers.

type (
	Level  = zapcore.Level
	Field  = zap.Field
	Option = zap.Option

	Logger struct {
		l     *zap.Logger
		level Level
	}
)

const (
	DebugLevel = zap.DebugLevel
	InfoLevel  = zap.InfoLevel
	WarnLevel  = zap.WarnLevel
	ErrorLevel = zap.ErrorLevel
	FatalLevel = zap.FatalLevel
)

var (
	String     = zap.String
	Int        = zap.Int
	Uint       = zap.Uint
	Uint32     = zap.Uint32
	Float      = zap.Float64
	Bool       = zap.Bool
	Any        = zap.Any
	Duration   = zap.Duration
	Time       = zap.Time
	ErrorField = zap.Error

	WithCaller    = zap.WithCaller
	AddCallerSkip = zap.AddCallerSkip
)

var defaultLogger = New(os.Stderr, InfoLevel)

func ParseLevel(text string) (Level, error) {
	return zapcore.ParseLevel(text)
}

// New creates a logger with JSON output (production encoding).
func New(writer io.Writer, level Level, opts ...Option) *Logger {
	if writer == nil {
		writer = os.Stderr
	}
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(cfg),
		zapcore.AddSync(writer),
		level,
	)
	return &Logger{l: zap.New(core, opts...), level: level}
}

// DevLogger creates a logger with console output for local development.
func DevLogger(writer io.Writer, level Level, opts ...Option) *Logger {
	if writer == nil {
		writer = os.Stderr
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.AddSync(writer),
		level,
	)
	return &Logger{l: zap.New(core, opts...), level: level}
}

func Default() *Logger { return defaultLogger }

// ResetDefault replaces the process-wide default logger.
func ResetDefault(l *Logger) {
	defaultLogger = l
}

func (l *Logger) Named(name string) *Logger {
	return &Logger{l: l.l.Named(name), level: l.level}
}

func (l *Logger) WithOptions(opts ...Option) *Logger {
	return &Logger{l: l.l.WithOptions(opts...), level: l.level}
}

func (l *Logger) Level() Level { return l.level }

func (l *Logger) DebugEnabled() bool {
	return l.l.Core().Enabled(DebugLevel)
}

func (l *Logger) Debug(msg string, fields ...Field) { l.l.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...Field)  { l.l.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.l.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...Field) { l.l.Error(msg, fields...) }
func (l *Logger) Fatal(msg string, fields ...Field) { l.l.Fatal(msg, fields...) }

func (l *Logger) Debugf(template string, args ...any) { l.l.Sugar().Debugf(template, args...) }
func (l *Logger) Infof(template string, args ...any)  { l.l.Sugar().Infof(template, args...) }
func (l *Logger) Errorf(template string, args ...any) { l.l.Sugar().Errorf(template, args...) }
func (l *Logger) Fatalf(template string, args ...any) { l.l.Sugar().Fatalf(template, args...) }

func (l *Logger) Sync() error { return l.l.Sync() }

// package level helpers using the default logger

func Debug(msg string, fields ...Field) { defaultLogger.Debug(msg, fields...) }
func Info(msg string, fields ...Field)  { defaultLogger.Info(msg, fields...) }
func Warn(msg string, fields ...Field)  { defaultLogger.Warn(msg, fields...) }
func Error(msg string, fields ...Field) { defaultLogger.Error(msg, fields...) }
func Fatal(msg string, fields ...Field) { defaultLogger.Fatal(msg, fields...) }

func Fatalf(template string, args ...any) { defaultLogger.Fatalf(template, args...) }

type ctxKey struct{}

// NewContext attaches a logger to the context.
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// GetFromContext returns the logger attached to ctx or the default logger.
func GetFromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return defaultLogger
}
