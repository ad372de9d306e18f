package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// ToContext injects a logger into the context. Middlewares use this to
// propagate a request-scoped logger (request_id, client_ip, ...).
func ToContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From extracts the logger from the context, falling back to the
// singleton when none was injected. Safe to call anywhere.
func From(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return L()
	}
	if v := ctx.Value(ctxKey{}); v != nil {
		if l, ok := v.(*zap.Logger); ok {
			return l
		}
	}
	return L()
}
