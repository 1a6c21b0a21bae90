package cachestore

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// DefaultMemoryCapacity bounds the in-process store.
const DefaultMemoryCapacity = 10000

type memoryEntry struct {
	key       string
	value     []byte
	expiresAt time.Time // zero means no expiration
}

// MemoryStore is an in-process Store with LRU eviction and per-entry TTL.
// It serves tests and single-instance deployments; multi-instance services
// should use RedisStore so invalidations are visible everywhere.
type MemoryStore struct {
	mu       sync.Mutex
	items    map[string]*list.Element
	eviction *list.List
	capacity int
}

// NewMemoryStore creates an in-process store bounded to capacity entries.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryStore{
		items:    make(map[string]*list.Element),
		eviction: list.New(),
		capacity: capacity,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[key]
	if !ok {
		return nil, false, nil
	}

	entry := elem.Value.(*memoryEntry)
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		s.eviction.Remove(elem)
		delete(s.items, key)
		return nil, false, nil
	}

	s.eviction.MoveToFront(elem)
	return entry.value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	if elem, ok := s.items[key]; ok {
		entry := elem.Value.(*memoryEntry)
		entry.value = value
		entry.expiresAt = expiresAt
		s.eviction.MoveToFront(elem)
		return nil
	}

	elem := s.eviction.PushFront(&memoryEntry{key: key, value: value, expiresAt: expiresAt})
	s.items[key] = elem

	if s.eviction.Len() > s.capacity {
		oldest := s.eviction.Back()
		if oldest != nil {
			s.eviction.Remove(oldest)
			delete(s.items, oldest.Value.(*memoryEntry).key)
		}
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		if elem, ok := s.items[key]; ok {
			s.eviction.Remove(elem)
			delete(s.items, key)
		}
	}
	return nil
}

// Close is a no-op; MemoryStore holds no external resources.
func (s *MemoryStore) Close() error {
	return nil
}
