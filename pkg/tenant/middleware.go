package tenant

import (
	"errors"
	"net/http"

	"github.com/saasforge/tenantkit/pkg/claims"
	"github.com/saasforge/tenantkit/pkg/logger"
)

// Middleware gates every request behind tenant resolution. Public paths on
// the allow-list pass through with no tenant context and no membership
// lookup. For everything else the identity is taken from the request context
// (or extracted from the gateway headers when the claims middleware is not
// mounted), the organization scope is resolved, membership is verified, and
// the resulting Context is attached for the remainder of the request.
//
// Failure mapping follows the default error handler: no identity or no
// derivable organization is 401, a failed membership check is 403, an
// unusable organization id is 400.
func Middleware(resolver *Resolver, opts ...Option) func(http.Handler) http.Handler {
	if resolver == nil {
		panic("tenant: resolver cannot be nil")
	}

	cfg := &middlewareConfig{
		allowlist:    DefaultAllowlist(),
		errorHandler: defaultErrorHandler,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	reject := func(w http.ResponseWriter, r *http.Request, err error) {
		for _, observe := range cfg.denialObservers {
			observe(r, err)
		}
		cfg.errorHandler(w, r, err)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.allowlist.Match(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()

			user, ok := claims.FromContext(ctx)
			if !ok {
				var err error
				user, ok, err = claims.Extract(r.Header)
				if err != nil {
					reject(w, r, err)
					return
				}
				if !ok {
					reject(w, r, claims.ErrNoUserInContext)
					return
				}
				ctx = claims.WithUser(ctx, user)
				r = r.WithContext(ctx)
			}

			tc, err := resolver.Resolve(r, user)
			if err != nil {
				if cfg.logger != nil && !isExpectedFailure(err) {
					cfg.logger.ErrorContext(ctx, "tenant resolution failed",
						logger.Error(err),
						logger.UserID(user.ID.String()),
					)
				}
				reject(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithContext(ctx, tc)))
		})
	}
}

// isExpectedFailure separates routine rejections from failures worth paging
// about (membership store outages and the like).
func isExpectedFailure(err error) bool {
	return errors.Is(err, ErrContextMissing) ||
		errors.Is(err, ErrAccessDenied) ||
		errors.Is(err, ErrInvalidOrganizationID)
}

// RequireContext rejects requests that reach it without a resolved tenant
// context. Mount it on sub-routers whose handlers call MustFromContext.
func RequireContext(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = defaultErrorHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := FromContext(r.Context()); !ok {
				errorHandler(w, r, ErrNoContextAttached)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
