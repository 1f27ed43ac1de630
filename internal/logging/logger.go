package logging

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type requestIDKey struct{}

var base = zap.NewNop()

// New builds the process logger. Production uses the JSON encoder, everything
// else the console encoder.
func New(env, level string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}

// SetBase replaces the logger returned by L and FromContext.
func SetBase(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	base = l
}

// L returns the process logger.
func L() *zap.Logger {
	return base
}

// WithRequestID stores the request id in ctx.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// RequestID extracts the request id from ctx, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

// FromContext returns the process logger annotated with the request id of ctx.
func FromContext(ctx context.Context) *zap.Logger {
	rid := RequestID(ctx)
	if rid == "" {
		return base
	}
	return base.With(zap.String("request_id", rid))
}
