package logx

import (
	"context"
	"strings"

	"webtask-bridge/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.Logger
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	taskIDKey
)

func init() {
	zapCfg := zap.NewProductionConfig()
	zapCfg.Sampling = nil
	zapCfg.DisableStacktrace = true
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	appCfg := config.Load()
	if appCfg.LogLevel != "" {
		_ = zapCfg.Level.UnmarshalText([]byte(strings.ToLower(appCfg.LogLevel)))
	}

	var err error
	logger, err = zapCfg.Build(zap.AddCaller())
	if err != nil {
		panic(err)
	}
}

// L returns the package-level logger instance.
func L() *zap.Logger {
	return logger
}

// ContextWithRequestID stores an HTTP request ID for WithFields.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// ContextWithTaskID stores a task invocation ID for WithFields.
func ContextWithTaskID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, taskIDKey, id)
}

// RequestID returns the request ID stored in ctx, if any.
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

// WithFields enriches logs with request and task IDs from context.
func WithFields(ctx context.Context) *zap.Logger {
	l := logger
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		l = l.With(zap.String("request_id", v))
	}
	if v, ok := ctx.Value(taskIDKey).(string); ok && v != "" {
		l = l.With(zap.String("task_id", v))
	}
	return l
}
