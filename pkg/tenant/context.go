package tenant

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type contextKey struct{}

// WithContext stores the resolved tenant context in ctx.
func WithContext(ctx context.Context, tc Context) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

// FromContext retrieves the tenant context resolved for this request.
func FromContext(ctx context.Context) (Context, bool) {
	tc, ok := ctx.Value(contextKey{}).(Context)
	return tc, ok
}

// OrganizationIDFromContext retrieves just the organization id.
// Returns the zero UUID and false if no tenant context is attached.
func OrganizationIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	tc, ok := FromContext(ctx)
	if !ok {
		return uuid.UUID{}, false
	}
	return tc.OrganizationID, true
}

// MustFromContext retrieves the tenant context or panics. Use only in
// handlers mounted behind the isolation middleware.
func MustFromContext(ctx context.Context) Context {
	tc, ok := FromContext(ctx)
	if !ok {
		panic("tenant: no tenant context in request")
	}
	return tc
}

// LoggerExtractor returns a logger context extractor that adds the
// organization id to every log record produced within a request.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if orgID, ok := OrganizationIDFromContext(ctx); ok {
			return slog.String("organization_id", orgID.String()), true
		}
		return slog.Attr{}, false
	}
}
