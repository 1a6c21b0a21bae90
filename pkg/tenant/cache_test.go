package tenant_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saasforge/tenantkit/pkg/tenant"
)

func TestMemoryCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("stores and returns decisions", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryCacheWithSize(10)
		defer cache.Close()

		cache.Set(ctx, "u1:orgA", true, time.Minute)
		cache.Set(ctx, "u1:orgB", false, time.Minute)

		member, ok := cache.Get(ctx, "u1:orgA")
		require.True(t, ok)
		assert.True(t, member)

		member, ok = cache.Get(ctx, "u1:orgB")
		require.True(t, ok)
		assert.False(t, member)
	})

	t.Run("miss on unknown key", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryCacheWithSize(10)
		defer cache.Close()

		_, ok := cache.Get(ctx, "nope")
		assert.False(t, ok)
	})

	t.Run("expired entries are misses", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryCacheWithSize(10)
		defer cache.Close()

		cache.Set(ctx, "u1:orgA", true, 10*time.Millisecond)
		time.Sleep(30 * time.Millisecond)

		_, ok := cache.Get(ctx, "u1:orgA")
		assert.False(t, ok)
	})

	t.Run("evicts least recently used at capacity", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryCacheWithSize(2)
		defer cache.Close()

		cache.Set(ctx, "a", true, time.Minute)
		cache.Set(ctx, "b", true, time.Minute)

		// Touch "a" so "b" becomes the eviction candidate.
		_, ok := cache.Get(ctx, "a")
		require.True(t, ok)

		cache.Set(ctx, "c", true, time.Minute)

		_, ok = cache.Get(ctx, "b")
		assert.False(t, ok)
		_, ok = cache.Get(ctx, "a")
		assert.True(t, ok)
	})

	t.Run("delete removes a decision", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryCacheWithSize(10)
		defer cache.Close()

		cache.Set(ctx, "u1:orgA", true, time.Minute)
		cache.Delete(ctx, "u1:orgA")

		_, ok := cache.Get(ctx, "u1:orgA")
		assert.False(t, ok)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryCacheWithSize(10)
		require.NoError(t, cache.Close())
		require.NoError(t, cache.Close())
	})

	t.Run("concurrent access is safe", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewMemoryCacheWithSize(100)
		defer cache.Close()

		done := make(chan struct{})
		for i := range 10 {
			go func(n int) {
				defer func() { done <- struct{}{} }()
				for j := range 100 {
					key := fmt.Sprintf("u%d:org%d", n, j%5)
					cache.Set(ctx, key, j%2 == 0, time.Minute)
					cache.Get(ctx, key)
				}
			}(i)
		}
		for range 10 {
			<-done
		}
	})
}

func TestNoopCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := tenant.NewNoopCache()

	cache.Set(ctx, "u1:orgA", true, time.Minute)
	_, ok := cache.Get(ctx, "u1:orgA")
	assert.False(t, ok)
	assert.NoError(t, cache.Close())
}
