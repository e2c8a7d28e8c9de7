package logger

import (
	"context"

	"go.uber.org/zap"
)

// ctxKey keeps the logger entry private to this package.
type ctxKey struct{}

// ContextWithLogger returns a child context carrying a request-scoped logger,
// typically one enriched with the request ID by the wide-event middleware.
func ContextWithLogger(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// FromContext returns the logger carried by ctx. Contexts without one get a
// no-op logger, so call sites never nil-check.
func FromContext(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return log
	}
	return zap.NewNop()
}
