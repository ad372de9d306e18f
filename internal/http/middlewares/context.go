package middlewares

import (
	"context"

	"github.com/cotato/auth-service/internal/domain/repository"
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeyUser
)

func setRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, rid)
}

// GetRequestID returns the request ID injected by WithRequestID, or "".
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return v
	}
	return ""
}

func setUser(ctx context.Context, u *repository.User) context.Context {
	return context.WithValue(ctx, ctxKeyUser, u)
}

// GetUser returns the authenticated user injected by RequireAuth, or nil.
func GetUser(ctx context.Context) *repository.User {
	if v, ok := ctx.Value(ctxKeyUser).(*repository.User); ok {
		return v
	}
	return nil
}
