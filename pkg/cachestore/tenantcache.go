package cachestore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/saasforge/tenantkit/pkg/cachekey"
)

// DefaultTTL applies when a TenantCache is created without WithTTL.
const DefaultTTL = 5 * time.Minute

// TenantCache stores JSON-encoded values under keys derived by a
// cachekey.Builder, so every entry carries the tenant of the request
// context it was written from. Callers never assemble key strings.
type TenantCache struct {
	store   Store
	builder *cachekey.Builder
	ttl     time.Duration
}

// TenantCacheOption configures a TenantCache.
type TenantCacheOption func(*TenantCache)

// WithTTL overrides the default expiration for Set.
func WithTTL(ttl time.Duration) TenantCacheOption {
	return func(c *TenantCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// NewTenantCache combines a Store with a key builder.
// Panics if either is nil, matching other constructor contracts in this
// module.
func NewTenantCache(store Store, builder *cachekey.Builder, opts ...TenantCacheOption) *TenantCache {
	if store == nil {
		panic("cachestore: store cannot be nil")
	}
	if builder == nil {
		panic("cachestore: key builder cannot be nil")
	}

	c := &TenantCache{
		store:   store,
		builder: builder,
		ttl:     DefaultTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get reads a cached value into dst. The bool reports whether the key was
// present; key derivation failures (such as a missing tenant under
// mandatory isolation) surface as errors, never as silent misses on a
// shared key.
func (c *TenantCache) Get(ctx context.Context, resourceType, resourceID string, dst any, opts ...cachekey.Option) (bool, error) {
	key, err := c.builder.Build(ctx, resourceType, resourceID, opts...)
	if err != nil {
		return false, err
	}

	raw, found, err := c.store.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return false, errors.Join(ErrDecode, err)
	}
	return true, nil
}

// Set caches a value under the derived key using the configured TTL.
func (c *TenantCache) Set(ctx context.Context, resourceType, resourceID string, value any, opts ...cachekey.Option) error {
	key, err := c.builder.Build(ctx, resourceType, resourceID, opts...)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Join(ErrEncode, err)
	}
	return c.store.Set(ctx, key, raw, c.ttl)
}

// Delete removes the entry for one resource.
func (c *TenantCache) Delete(ctx context.Context, resourceType, resourceID string, opts ...cachekey.Option) error {
	key, err := c.builder.Build(ctx, resourceType, resourceID, opts...)
	if err != nil {
		return err
	}
	return c.store.Delete(ctx, key)
}
