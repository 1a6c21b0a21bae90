package tenant

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DecisionKey is the cache key for one user/organization membership
// decision. Anything that invalidates decisions externally must use the
// same derivation the resolver uses.
func DecisionKey(userID, orgID uuid.UUID) string {
	return userID.String() + ":" + orgID.String()
}

// Cache stores membership decisions keyed by DecisionKey. Implementations
// must be safe for concurrent use.
type Cache interface {
	// Get returns the cached decision and whether the key was present.
	Get(ctx context.Context, key string) (member bool, ok bool)

	// Set stores a decision with the given TTL.
	Set(ctx context.Context, key string, member bool, ttl time.Duration)

	// Delete removes a decision, e.g. after a membership revocation.
	Delete(ctx context.Context, key string)

	// Close releases resources held by the cache.
	Close() error
}

// DefaultCacheSize bounds the in-memory decision cache.
const DefaultCacheSize = 10000

type memoryCacheEntry struct {
	key       string
	member    bool
	expiresAt time.Time
}

// memoryCache is a TTL-bounded LRU over membership decisions.
type memoryCache struct {
	mu       sync.Mutex
	items    map[string]*list.Element
	eviction *list.List
	maxSize  int
	stop     chan struct{}
	done     chan struct{}
	closed   bool
}

// NewMemoryCache creates an in-memory decision cache with the default size.
func NewMemoryCache() Cache {
	return NewMemoryCacheWithSize(DefaultCacheSize)
}

// NewMemoryCacheWithSize creates an in-memory decision cache bounded to
// maxSize entries. A background goroutine sweeps expired entries; call Close
// to stop it.
func NewMemoryCacheWithSize(maxSize int) Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}

	c := &memoryCache{
		items:    make(map[string]*list.Element),
		eviction: list.New(),
		maxSize:  maxSize,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go c.sweep()
	return c
}

func (c *memoryCache) Get(_ context.Context, key string) (bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return false, false
	}

	entry := elem.Value.(*memoryCacheEntry)
	if time.Now().After(entry.expiresAt) {
		c.eviction.Remove(elem)
		delete(c.items, key)
		return false, false
	}

	c.eviction.MoveToFront(elem)
	return entry.member, true
}

func (c *memoryCache) Set(_ context.Context, key string, member bool, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		entry := elem.Value.(*memoryCacheEntry)
		entry.member = member
		entry.expiresAt = time.Now().Add(ttl)
		c.eviction.MoveToFront(elem)
		return
	}

	elem := c.eviction.PushFront(&memoryCacheEntry{
		key:       key,
		member:    member,
		expiresAt: time.Now().Add(ttl),
	})
	c.items[key] = elem

	if c.eviction.Len() > c.maxSize {
		oldest := c.eviction.Back()
		if oldest != nil {
			c.eviction.Remove(oldest)
			delete(c.items, oldest.Value.(*memoryCacheEntry).key)
		}
	}
}

func (c *memoryCache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.eviction.Remove(elem)
		delete(c.items, key)
	}
}

func (c *memoryCache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	close(c.stop)
	<-c.done
	return nil
}

func (c *memoryCache) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	defer close(c.done)

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *memoryCache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, elem := range c.items {
		if now.After(elem.Value.(*memoryCacheEntry).expiresAt) {
			c.eviction.Remove(elem)
			delete(c.items, key)
		}
	}
}

// noopCache never caches. Useful in tests and for deployments where every
// request must hit the membership store.
type noopCache struct{}

// NewNoopCache returns a cache that stores nothing.
func NewNoopCache() Cache {
	return noopCache{}
}

func (noopCache) Get(context.Context, string) (bool, bool)         { return false, false }
func (noopCache) Set(context.Context, string, bool, time.Duration) {}
func (noopCache) Delete(context.Context, string)                   {}
func (noopCache) Close() error                                     { return nil }
