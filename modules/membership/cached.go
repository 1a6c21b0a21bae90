package membership

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/saasforge/tenantkit/pkg/tenant"
)

// DefaultDecisionTTL bounds how long a membership decision may be served
// from cache after the underlying record changed.
const DefaultDecisionTTL = 30 * time.Second

// CachedChecker wraps a MembershipChecker with a decision cache for code
// paths that check membership outside the HTTP middleware. It shares the
// tenant.DecisionKey derivation, so handing the same tenant.Cache to a
// resolver and to Invalidate keeps both coherent.
type CachedChecker struct {
	checker tenant.MembershipChecker
	cache   tenant.Cache
	ttl     time.Duration
}

// NewCachedChecker wraps checker with cache.
func NewCachedChecker(checker tenant.MembershipChecker, cache tenant.Cache, ttl time.Duration) *CachedChecker {
	if checker == nil {
		panic("membership: checker cannot be nil")
	}
	if cache == nil {
		panic("membership: cache cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultDecisionTTL
	}
	return &CachedChecker{checker: checker, cache: cache, ttl: ttl}
}

// IsMember implements tenant.MembershipChecker. Both positive and negative
// decisions are cached.
func (c *CachedChecker) IsMember(ctx context.Context, userID, orgID uuid.UUID) (bool, error) {
	key := tenant.DecisionKey(userID, orgID)

	if member, ok := c.cache.Get(ctx, key); ok {
		return member, nil
	}

	member, err := c.checker.IsMember(ctx, userID, orgID)
	if err != nil {
		return false, err
	}

	c.cache.Set(ctx, key, member, c.ttl)
	return member, nil
}

// Invalidate drops the cached decision for one user/organization pair.
// Call it after adding or removing a membership.
func (c *CachedChecker) Invalidate(ctx context.Context, userID, orgID uuid.UUID) {
	c.cache.Delete(ctx, tenant.DecisionKey(userID, orgID))
}
