package auth

import (
	"context"
	"time"
)

// UserContext holds the authenticated user of a request
type UserContext struct {
	UserID      string
	Email       string
	DisplayName string
	// SessionID identifies the signed-in session; empty when the provider has none
	SessionID string
	ExpiresAt time.Time
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok && user != nil
}

// MustFromContext extracts user context or panics
func MustFromContext(ctx context.Context) *UserContext {
	user, ok := FromContext(ctx)
	if !ok {
		panic("user context not found in context")
	}
	return user
}

// OwnerID returns the id every owned record of this request is scoped to
func OwnerID(ctx context.Context) (string, bool) {
	user, ok := FromContext(ctx)
	if !ok || user.UserID == "" {
		return "", false
	}
	return user.UserID, true
}
