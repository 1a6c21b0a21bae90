package tenant

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/saasforge/tenantkit/pkg/claims"
)

// Resolver determines the single organization that scopes a request and
// verifies the caller belongs to it.
type Resolver struct {
	source   Source
	checker  MembershipChecker
	cache    Cache
	cacheTTL time.Duration
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithSource overrides the candidate extraction order.
func WithSource(s Source) ResolverOption {
	return func(r *Resolver) {
		if s != nil {
			r.source = s
		}
	}
}

// WithMembershipCache caches membership decisions to keep the membership
// store off the hot path. Decisions are cached for the resolver's TTL, so a
// revoked membership stays usable for at most that long.
func WithMembershipCache(c Cache) ResolverOption {
	return func(r *Resolver) {
		if c != nil {
			r.cache = c
		}
	}
}

// WithCacheTTL sets how long membership decisions stay cached.
func WithCacheTTL(ttl time.Duration) ResolverOption {
	return func(r *Resolver) {
		if ttl > 0 {
			r.cacheTTL = ttl
		}
	}
}

// NewResolver creates a resolver backed by the given membership checker.
// The default source order is identity claim, path, query string; the
// default cache is a no-op.
func NewResolver(checker MembershipChecker, opts ...ResolverOption) *Resolver {
	if checker == nil {
		panic("tenant: membership checker cannot be nil")
	}

	r := &Resolver{
		source:   DefaultSource(),
		checker:  checker,
		cache:    NewNoopCache(),
		cacheTTL: time.Minute,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the tenant context for the request or fails:
//
//   - ErrContextMissing when no source produced an organization id,
//   - ErrAccessDenied when the user is not a member of the organization,
//   - ErrInvalidOrganizationID when the request named an unusable id,
//   - the checker's error when the membership lookup itself failed.
//
// A returned Context is always fully populated.
func (r *Resolver) Resolve(req *http.Request, user claims.User) (Context, error) {
	orgID, ok, err := r.source.Extract(req, user)
	if err != nil {
		return Context{}, err
	}
	if !ok {
		return Context{}, ErrContextMissing
	}

	member, err := r.isMember(req, user.ID, orgID)
	if err != nil {
		return Context{}, err
	}
	if !member {
		return Context{}, ErrAccessDenied
	}

	return Context{OrganizationID: orgID, UserID: user.ID}, nil
}

func (r *Resolver) isMember(req *http.Request, userID, orgID uuid.UUID) (bool, error) {
	ctx := req.Context()
	key := DecisionKey(userID, orgID)

	if member, ok := r.cache.Get(ctx, key); ok {
		return member, nil
	}

	member, err := r.checker.IsMember(ctx, userID, orgID)
	if err != nil {
		return false, err
	}

	r.cache.Set(ctx, key, member, r.cacheTTL)
	return member, nil
}
