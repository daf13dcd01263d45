package logging

import (
	"context"
	"maps"
	"os"
	"slices"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLogger is a zap-backed implementation of Logger.
// Debug/Info -> stdout
// Warn/Error/Fatal -> stderr
type DefaultLogger struct {
	sugar  *zap.SugaredLogger
	level  zap.AtomicLevel
	fields Fields
}

// NewDefaultLogger creates a new default logger, colored when stdout is a terminal
func NewDefaultLogger() *DefaultLogger {
	return newDefaultLogger(isTerminal())
}

// NewDefaultLoggerNoColor creates a new default logger without colored output
func NewDefaultLoggerNoColor() *DefaultLogger {
	return newDefaultLogger(false)
}

// NewLoggerFromZap wraps an existing zap logger. The level filter of the
// wrapped core still applies on top of SetLevel.
func NewLoggerFromZap(logger *zap.Logger) *DefaultLogger {
	level := zap.NewAtomicLevelAt(zapcore.DebugLevel)
	return &DefaultLogger{
		sugar:  logger.WithOptions(zap.IncreaseLevel(level)).Sugar(),
		level:  level,
		fields: make(Fields),
	}
}

func newDefaultLogger(useColors bool) *DefaultLogger {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	if useColors {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	encoder := zapcore.NewConsoleEncoder(encCfg)

	low := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return level.Enabled(l) && l < zapcore.WarnLevel
	})
	high := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return level.Enabled(l) && l >= zapcore.WarnLevel
	})

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), low),
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), high),
	)

	return &DefaultLogger{
		sugar:  zap.New(core).Sugar(),
		level:  level,
		fields: make(Fields),
	}
}

// isTerminal checks if stdout is a character device
func isTerminal() bool {
	if fileInfo, _ := os.Stdout.Stat(); fileInfo != nil {
		return (fileInfo.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	case FatalLevel:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// keyvals flattens fields into zap's alternating key/value form, sorted by key
func keyvals(err error, fields ...Fields) []any {
	merged := make(Fields)
	for _, f := range fields {
		maps.Copy(merged, f)
	}

	kv := make([]any, 0, 2*len(merged)+2)
	if err != nil {
		kv = append(kv, zap.Error(err))
	}
	for _, k := range slices.Sorted(maps.Keys(merged)) {
		kv = append(kv, k, merged[k])
	}
	return kv
}

func (d *DefaultLogger) Debug(msg string, fields ...Fields) {
	d.sugar.Debugw(msg, keyvals(nil, fields...)...)
}

func (d *DefaultLogger) Info(msg string, fields ...Fields) {
	d.sugar.Infow(msg, keyvals(nil, fields...)...)
}

func (d *DefaultLogger) Warn(msg string, fields ...Fields) {
	d.sugar.Warnw(msg, keyvals(nil, fields...)...)
}

func (d *DefaultLogger) Error(err error, msg string, fields ...Fields) {
	d.sugar.Errorw(msg, keyvals(err, fields...)...)
}

func (d *DefaultLogger) Fatal(err error, msg string, fields ...Fields) {
	d.sugar.Fatalw(msg, keyvals(err, fields...)...)
}

func (d *DefaultLogger) WithFields(fields Fields) Logger {
	newFields := make(Fields)
	maps.Copy(newFields, d.fields)
	maps.Copy(newFields, fields)

	return &DefaultLogger{
		sugar:  d.sugar.With(keyvals(nil, fields)...),
		level:  d.level,
		fields: newFields,
	}
}

func (d *DefaultLogger) WithContext(ctx context.Context) Logger {
	if fields, ok := fieldsFromContext(ctx); ok {
		return d.WithFields(fields)
	}
	return d
}

func (d *DefaultLogger) SetLevel(level Level) {
	d.level.SetLevel(level.zapLevel())
}

// Sync flushes buffered log entries
func (d *DefaultLogger) Sync() error {
	return d.sugar.Sync()
}

// NoOpLogger is a logger that does nothing, for tests and silent runs
type NoOpLogger struct{}

func (n *NoOpLogger) Debug(msg string, fields ...Fields)            {}
func (n *NoOpLogger) Info(msg string, fields ...Fields)             {}
func (n *NoOpLogger) Warn(msg string, fields ...Fields)             {}
func (n *NoOpLogger) Error(err error, msg string, fields ...Fields) {}
func (n *NoOpLogger) Fatal(err error, msg string, fields ...Fields) {}
func (n *NoOpLogger) WithFields(fields Fields) Logger               { return n }
func (n *NoOpLogger) WithContext(ctx context.Context) Logger        { return n }
func (n *NoOpLogger) SetLevel(level Level)                          {}
