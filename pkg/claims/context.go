package claims

import (
	"context"
	"log/slog"
)

type contextKey struct{}

// WithUser stores the authenticated user in the context.
func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// FromContext retrieves the authenticated user from the context.
func FromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(contextKey{}).(User)
	return user, ok
}

// MustFromContext retrieves the authenticated user or panics. Use only in
// handlers mounted behind middleware that guarantees an identity.
func MustFromContext(ctx context.Context) User {
	user, ok := FromContext(ctx)
	if !ok {
		panic("claims: no user in context")
	}
	return user
}

// LoggerExtractor returns a logger context extractor that adds the user id
// to every log record produced within a request.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if user, ok := FromContext(ctx); ok {
			return slog.String("user_id", user.ID.String()), true
		}
		return slog.Attr{}, false
	}
}
