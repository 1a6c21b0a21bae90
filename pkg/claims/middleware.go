package claims

import (
	"net/http"

	"github.com/saasforge/tenantkit/core"
)

// ErrorHandler renders extraction failures.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type middlewareConfig struct {
	errorHandler ErrorHandler
}

// MiddlewareOption configures the claims middleware.
type MiddlewareOption func(*middlewareConfig)

// WithErrorHandler overrides how malformed identity headers are rendered.
func WithErrorHandler(h ErrorHandler) MiddlewareOption {
	return func(c *middlewareConfig) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// Middleware extracts the gateway identity and, when present, attaches it to
// the request context. Anonymous requests pass through untouched; whether an
// identity is mandatory is the concern of downstream middleware such as
// tenant isolation. Malformed identity headers are rejected with 401.
func Middleware(opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{
		errorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			_ = core.Error(w, core.ErrUnauthorized)
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok, err := Extract(r.Header)
			if err != nil {
				cfg.errorHandler(w, r, err)
				return
			}
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireUser rejects requests that reach it without an authenticated user
// in the context. Mount it on routes where anonymous access makes no sense
// even before tenant resolution.
func RequireUser(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
			_ = core.Error(w, core.ErrUnauthorized)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := FromContext(r.Context()); !ok {
				errorHandler(w, r, ErrNoUserInContext)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
