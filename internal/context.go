package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextUserKey ctxKey = "userID"

// SessionUser is the identity the auth middleware extracts from a verified access token.
type SessionUser struct {
	ID             int64
	Email          string
	RoleID         int64
	OrganizationID int64
}

func SessionUserFromContext(ctx context.Context) (SessionUser, bool) {
	if ctx == nil {
		return SessionUser{}, false
	}
	u, ok := ctx.Value(ContextUserKey).(SessionUser)
	return u, ok
}

func ContextWithSessionUser(ctx context.Context, u SessionUser) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
