// ABOUTME: Authentication context for tracking identity through request handlers
// ABOUTME: Provides WithUser/FromContext for propagating the user id via context

package auth

import (
	"context"
)

// userIDKey is the key type for storing the authenticated user ID in context.Context.
type userIDKey struct{}

// WithUser returns a new context with the authenticated user ID attached.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// FromContext retrieves the authenticated user ID from the context,
// returning "" if not present.
func FromContext(ctx context.Context) string {
	val := ctx.Value(userIDKey{})
	if val == nil {
		return ""
	}
	id, ok := val.(string)
	if !ok {
		return ""
	}
	return id
}

// MustFromContext retrieves the authenticated user ID from the context,
// panicking if not present. Use only behind RequireAuth.
func MustFromContext(ctx context.Context) string {
	id := FromContext(ctx)
	if id == "" {
		panic("auth: user ID not found in context")
	}
	return id
}
