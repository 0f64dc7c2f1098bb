package logger

import (
	"context"
	"fmt"
	"sort"

	"github.com/prasetyowira/shortlink/constant"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the application logger. It is built once at startup and passed
// to every component that logs.
type Logger struct {
	zl *zap.Logger
}

// LoggerInfo contains structured logging information
type LoggerInfo struct {
	ContextFunction string
	Error           *CustomError
	Data            map[string]interface{}
}

// CustomError represents a structured error for logging
type CustomError struct {
	Code    string
	Message string
	Type    string
}

type requestIDKey struct{}

// New builds a logger for the given environment:
// local logs debug to the console, dev logs debug as JSON and prod logs info as JSON.
func New(env string) (*Logger, error) {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        constant.LogTimeKey,
		LevelKey:       constant.LogLevelKey,
		NameKey:        constant.LogNameKey,
		CallerKey:      constant.LogCallerKey,
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     constant.LogMessageKey,
		StacktraceKey:  constant.LogStacktraceKey,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var config zap.Config
	switch env {
	case constant.EnvLocal:
		config = zap.Config{
			Level:            zap.NewAtomicLevelAt(zapcore.DebugLevel),
			Development:      true,
			Encoding:         constant.LogEncodingConsole,
			EncoderConfig:    encoderConfig,
			OutputPaths:      []string{constant.LogOutputStdout},
			ErrorOutputPaths: []string{constant.LogOutputStderr},
		}
	case constant.EnvDev:
		config = zap.Config{
			Level:            zap.NewAtomicLevelAt(zapcore.DebugLevel),
			Development:      true,
			Encoding:         constant.LogEncodingJSON,
			EncoderConfig:    encoderConfig,
			OutputPaths:      []string{constant.LogOutputStdout},
			ErrorOutputPaths: []string{constant.LogOutputStderr},
		}
	case constant.EnvProd:
		config = zap.Config{
			Level:       zap.NewAtomicLevelAt(zapcore.InfoLevel),
			Development: false,
			Sampling: &zap.SamplingConfig{
				Initial:    100,
				Thereafter: 100,
			},
			Encoding:         constant.LogEncodingJSON,
			EncoderConfig:    encoderConfig,
			OutputPaths:      []string{constant.LogOutputStdout},
			ErrorOutputPaths: []string{constant.LogOutputStderr},
		}
	default:
		return nil, fmt.Errorf("unknown environment %q", env)
	}

	zl, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	return &Logger{zl: zl}, nil
}

// NewNop returns a logger that discards everything. Used by tests.
func NewNop() *Logger {
	return &Logger{zl: zap.NewNop()}
}

// FromZap wraps an existing zap logger.
func FromZap(zl *zap.Logger) *Logger {
	return &Logger{zl: zl}
}

// Sync flushes buffered entries; call it on shutdown.
func (l *Logger) Sync() error {
	return l.zl.Sync()
}

// Debug logs a debug message with context
func (l *Logger) Debug(ctx context.Context, msg string, info LoggerInfo) {
	l.zl.Debug(msg, createFields(ctx, info)...)
}

// Info logs an info message with context
func (l *Logger) Info(ctx context.Context, msg string, info LoggerInfo) {
	l.zl.Info(msg, createFields(ctx, info)...)
}

// Warn logs a warning message with context
func (l *Logger) Warn(ctx context.Context, msg string, info LoggerInfo) {
	l.zl.Warn(msg, createFields(ctx, info)...)
}

// Error logs an error message with context
func (l *Logger) Error(ctx context.Context, msg string, info LoggerInfo) {
	l.zl.Error(msg, createFields(ctx, info)...)
}

// Fatal logs a fatal message with context and exits
func (l *Logger) Fatal(ctx context.Context, msg string, info LoggerInfo) {
	l.zl.Fatal(msg, createFields(ctx, info)...)
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestID returns the request ID stored in ctx, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if reqID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return reqID
	}
	return ""
}

func createFields(ctx context.Context, info LoggerInfo) []zap.Field {
	fields := make([]zap.Field, 0, 4+len(info.Data))

	if requestID := RequestID(ctx); requestID != "" {
		fields = append(fields, zap.String(constant.LogRequestIDKey, requestID))
	}

	if info.ContextFunction != "" {
		fields = append(fields, zap.String(constant.LogFunctionKey, info.ContextFunction))
	}

	if info.Error != nil {
		fields = append(fields,
			zap.String(constant.LogErrorCodeKey, info.Error.Code),
			zap.String(constant.LogErrorTypeKey, info.Error.Type),
			zap.String(constant.LogErrorMessageKey, info.Error.Message),
		)
	}

	// data fields are emitted sorted by key
	keys := make([]string, 0, len(info.Data))
	for k := range info.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, zap.Any(k, info.Data[k]))
	}

	return fields
}
