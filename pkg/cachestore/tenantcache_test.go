package cachestore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saasforge/tenantkit/pkg/cachekey"
	"github.com/saasforge/tenantkit/pkg/cachestore"
	"github.com/saasforge/tenantkit/pkg/tenant"
)

// failingStore simulates a broken backend.
type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, cachestore.ErrBackend
}

func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return cachestore.ErrBackend
}

func (failingStore) Delete(context.Context, ...string) error { return cachestore.ErrBackend }
func (failingStore) Close() error                            { return nil }

type profile struct {
	Name  string `json:"name"`
	Plan  string `json:"plan"`
	Seats int    `json:"seats"`
}

func tenantContext(t *testing.T) (context.Context, uuid.UUID) {
	t.Helper()
	orgID := uuid.New()
	ctx := tenant.WithContext(context.Background(), tenant.Context{
		OrganizationID: orgID,
		UserID:         uuid.New(),
	})
	return ctx, orgID
}

func TestTenantCache(t *testing.T) {
	t.Parallel()

	t.Run("typed round trip under ambient tenant", func(t *testing.T) {
		t.Parallel()

		ctx, _ := tenantContext(t)
		cache := cachestore.NewTenantCache(
			cachestore.NewMemoryStore(10),
			cachekey.NewBuilder("app", true),
		)

		in := profile{Name: "Acme", Plan: "pro", Seats: 12}
		require.NoError(t, cache.Set(ctx, "org-profile", "current", in))

		var out profile
		found, err := cache.Get(ctx, "org-profile", "current", &out)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, in, out)
	})

	t.Run("entries are invisible across tenants", func(t *testing.T) {
		t.Parallel()

		store := cachestore.NewMemoryStore(10)
		cache := cachestore.NewTenantCache(store, cachekey.NewBuilder("app", true))

		ctxA, _ := tenantContext(t)
		ctxB, _ := tenantContext(t)

		require.NoError(t, cache.Set(ctxA, "org-profile", "current", profile{Name: "A"}))

		var out profile
		found, err := cache.Get(ctxB, "org-profile", "current", &out)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("missing tenant fails instead of sharing a key", func(t *testing.T) {
		t.Parallel()

		cache := cachestore.NewTenantCache(
			cachestore.NewMemoryStore(10),
			cachekey.NewBuilder("app", true),
		)

		err := cache.Set(context.Background(), "org-profile", "current", profile{})
		assert.ErrorIs(t, err, cachekey.ErrMissingTenant)

		var out profile
		_, err = cache.Get(context.Background(), "org-profile", "current", &out)
		assert.ErrorIs(t, err, cachekey.ErrMissingTenant)
	})

	t.Run("delete removes only the callers tenant entry", func(t *testing.T) {
		t.Parallel()

		store := cachestore.NewMemoryStore(10)
		cache := cachestore.NewTenantCache(store, cachekey.NewBuilder("app", true))

		ctxA, _ := tenantContext(t)
		ctxB, _ := tenantContext(t)

		require.NoError(t, cache.Set(ctxA, "doc", "1", profile{Name: "A"}))
		require.NoError(t, cache.Set(ctxB, "doc", "1", profile{Name: "B"}))

		require.NoError(t, cache.Delete(ctxA, "doc", "1"))

		var out profile
		found, err := cache.Get(ctxA, "doc", "1", &out)
		require.NoError(t, err)
		assert.False(t, found)

		found, err = cache.Get(ctxB, "doc", "1", &out)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "B", out.Name)
	})

	t.Run("decode failure is reported, not a miss", func(t *testing.T) {
		t.Parallel()

		ctx, _ := tenantContext(t)
		store := cachestore.NewMemoryStore(10)
		builder := cachekey.NewBuilder("app", true)
		cache := cachestore.NewTenantCache(store, builder)

		key, err := builder.Build(ctx, "doc", "1")
		require.NoError(t, err)
		require.NoError(t, store.Set(ctx, key, []byte("{not json"), 0))

		var out profile
		_, err = cache.Get(ctx, "doc", "1", &out)
		assert.ErrorIs(t, err, cachestore.ErrDecode)
	})

	t.Run("backend failures propagate", func(t *testing.T) {
		t.Parallel()

		ctx, _ := tenantContext(t)
		cache := cachestore.NewTenantCache(failingStore{}, cachekey.NewBuilder("app", true))

		err := cache.Set(ctx, "doc", "1", profile{})
		assert.True(t, errors.Is(err, cachestore.ErrBackend))
	})

	t.Run("nil dependencies panic", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			cachestore.NewTenantCache(nil, cachekey.NewBuilder("app", true))
		})
		assert.Panics(t, func() {
			cachestore.NewTenantCache(cachestore.NewMemoryStore(1), nil)
		})
	})
}
