package tenant

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/saasforge/tenantkit/core"
	"github.com/saasforge/tenantkit/pkg/claims"
)

// ErrorHandler renders tenant resolution failures.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// DenialObserver is notified after a request is rejected. Wire it to an
// audit logger to record denied access attempts:
//
//	tenant.WithDenialObserver(func(r *http.Request, err error) {
//		_ = auditLog.LogError(r.Context(), "tenant.denied", err)
//	})
type DenialObserver func(r *http.Request, err error)

type middlewareConfig struct {
	allowlist       Allowlist
	errorHandler    ErrorHandler
	logger          *slog.Logger
	denialObservers []DenialObserver
}

// Option configures the isolation middleware.
type Option func(*middlewareConfig)

// WithAllowlist replaces the default public-path allow-list.
func WithAllowlist(a Allowlist) Option {
	return func(c *middlewareConfig) {
		c.allowlist = a
	}
}

// WithSkipPaths adds exact paths to the allow-list.
func WithSkipPaths(paths ...string) Option {
	return func(c *middlewareConfig) {
		c.allowlist.Paths = append(c.allowlist.Paths, paths...)
	}
}

// WithSkipPrefixes adds path prefixes to the allow-list.
func WithSkipPrefixes(prefixes ...string) Option {
	return func(c *middlewareConfig) {
		c.allowlist.Prefixes = append(c.allowlist.Prefixes, prefixes...)
	}
}

// WithErrorHandler overrides how resolution failures are rendered.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *middlewareConfig) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// WithDenialObserver registers a callback for rejected requests.
func WithDenialObserver(fn DenialObserver) Option {
	return func(c *middlewareConfig) {
		if fn != nil {
			c.denialObservers = append(c.denialObservers, fn)
		}
	}
}

// WithLogger sets the logger used for unexpected resolution failures.
func WithLogger(log *slog.Logger) Option {
	return func(c *middlewareConfig) {
		c.logger = log
	}
}

// defaultErrorHandler maps resolution failures onto the error taxonomy:
// missing identity or missing scope is 401, a failed membership check is
// 403 (membership denial deliberately confirms the organization exists; a
// deployment that must hide existence can override with a 404 handler),
// an unusable organization id is 400, anything else is 500.
func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrContextMissing),
		errors.Is(err, ErrNoContextAttached),
		errors.Is(err, claims.ErrMalformedIdentity),
		errors.Is(err, claims.ErrNoUserInContext):
		_ = core.Error(w, core.ErrUnauthorized)
	case errors.Is(err, ErrAccessDenied):
		_ = core.Error(w, core.ErrForbidden)
	case errors.Is(err, ErrInvalidOrganizationID):
		_ = core.Error(w, core.ErrBadRequest)
	default:
		_ = core.Error(w, core.ErrInternalServerError)
	}
}
