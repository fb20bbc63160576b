package logger

import (
	"context"
	"fmt"
	"strings"

	"github.com/zd0907-arc/market-live-terminal/pkg/errors"
	"github.com/zd0907-arc/market-live-terminal/pkg/util"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Interface is the logging surface components depend on.
type Interface interface {
	Debug(message string, fields ...Field)
	DebugContext(ctx context.Context, message string, fields ...Field)
	Error(err error, fields ...Field)
	ErrorContext(ctx context.Context, err error, fields ...Field)
	GetZap() *zap.Logger
	Info(message string, fields ...Field)
	InfoContext(ctx context.Context, message string, fields ...Field)
	Sync() error
	Warn(message string, fields ...Field)
	WarnContext(ctx context.Context, message string, fields ...Field)
	WithFields(fields ...Field) *Logger
	Named(component string) *Logger
}

// Logger writes structured JSON through zap.
type Logger struct {
	logger *zap.Logger
}

// Field is one key/value on a log entry.
type Field struct {
	Key   string
	Value any
}

// Options configure NewLogger. Later options override earlier ones.
type Options struct {
	level       Level
	outputPaths []string
}

// Level is a log severity as named in configuration.
type Level string

var (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"

	messageKey string = "message"
)

// zapLevel maps a configured level to zap; unknown names mean info.
func (level Level) zapLevel() zapcore.Level {
	switch level {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// NewLogger builds a JSON production logger that writes "message" instead of
// zap's "msg".
func NewLogger(opts ...Options) (*Logger, error) {
	cfg := zap.NewProductionConfig()
	for _, opt := range opts {
		if opt.level != "" {
			cfg.Level = zap.NewAtomicLevelAt(opt.level.zapLevel())
		}
		if len(opt.outputPaths) > 0 {
			cfg.OutputPaths = opt.outputPaths
		}
	}
	cfg.EncoderConfig.MessageKey = messageKey

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{logger: logger}, nil
}

// NewNop returns a Logger that discards everything. Used by tests and by
// components constructed without a logger.
func NewNop() *Logger {
	return &Logger{logger: zap.NewNop()}
}

// Named returns a child logger tagged with a component name, e.g. "poller".
func (l *Logger) Named(component string) *Logger {
	return &Logger{logger: l.logger.With(zap.String("component", component))}
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.logger.Sync()
}

// WithLoggingLevel sets the minimum level. Info when unset.
func WithLoggingLevel(level Level) Options {
	return Options{level: level}
}

// WithOutputPaths sends logs to the given zap sinks ("stdout", "stderr" or
// file paths). Stderr when unset.
func WithOutputPaths(paths []string) Options {
	return Options{outputPaths: paths}
}

// GetZap exposes the underlying zap logger.
func (l *Logger) GetZap() *zap.Logger {
	return l.logger
}

// NewField pairs a key with a value.
func NewField(key string, value any) Field {
	return Field{key, value}
}

// Info logs at info level.
func (l *Logger) Info(message string, fields ...Field) {
	l.logger.Info(message, convertFields(fields...)...)
}

// InfoContext is Info plus the cycle fields carried by ctx.
func (l *Logger) InfoContext(ctx context.Context, message string, fields ...Field) {
	l.Info(message, appendRequestID(ctx, fields)...)
}

// Warn logs at warn level.
func (l *Logger) Warn(message string, fields ...Field) {
	l.logger.Warn(message, convertFields(fields...)...)
}

// WarnContext is Warn plus the cycle fields carried by ctx.
func (l *Logger) WarnContext(ctx context.Context, message string, fields ...Field) {
	l.Warn(message, appendRequestID(ctx, fields)...)
}

// Debug logs at debug level.
func (l *Logger) Debug(message string, fields ...Field) {
	l.logger.Debug(message, convertFields(fields...)...)
}

// DebugContext is Debug plus the cycle fields carried by ctx.
func (l *Logger) DebugContext(ctx context.Context, message string, fields ...Field) {
	l.Debug(message, appendRequestID(ctx, fields)...)
}

// Error logs err at error level. A nil err is ignored. When err carries a
// stack from pkg/errors that stack replaces the one zap would capture here.
func (l *Logger) Error(err error, fields ...Field) {
	if err == nil {
		return
	}
	ce := l.logger.Check(zapcore.ErrorLevel, err.Error())
	if ce == nil {
		return
	}
	if tracer, ok := err.(errors.StackTracer); ok {
		if stack := strings.TrimSpace(fmt.Sprintf("%+v", tracer.StackTrace())); stack != "" {
			ce.Stack = stack
		}
	}
	ce.Write(convertFields(fields...)...)
}

// ErrorContext is Error plus the cycle fields carried by ctx.
func (l *Logger) ErrorContext(ctx context.Context, err error, fields ...Field) {
	l.Error(err, appendRequestID(ctx, fields)...)
}

// WithFields returns a child logger that adds fields to every entry.
func (l *Logger) WithFields(fields ...Field) *Logger {
	return &Logger{logger: l.logger.With(convertFields(fields...)...)}
}

func convertFields(fields ...Field) []zapcore.Field {
	out := make([]zapcore.Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}

// appendRequestID adds the request id, and the poll loop and symbol when
// ctx carries them.
func appendRequestID(ctx context.Context, fields []Field) []Field {
	fields = append(fields, NewField("request_id", util.GetRequestID(ctx)))
	if loop := util.GetLoop(ctx); loop != "" {
		fields = append(fields, NewField("loop", loop))
	}
	if symbol := util.GetSymbol(ctx); symbol != "" {
		fields = append(fields, NewField("symbol", symbol))
	}
	return fields
}
