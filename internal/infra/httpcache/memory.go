package httpcache

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultMaxEntries = 1000
	sweepInterval     = time.Minute
)

type memoryItem struct {
	entry     Entry
	expiresAt time.Time
}

// MemoryStore is an in-process Store bounded to maxEntries, evicting least recently
// used entries first. maxTTL caps every entry's lifetime; per-entry expiry is
// enforced on lookup and by a periodic sweep on write.
type MemoryStore struct {
	cache *expirable.LRU[string, memoryItem]
	now   func() time.Time

	mu        sync.Mutex
	nextSweep time.Time
}

// NewMemoryStore creates a store holding at most maxEntries (DefaultMaxEntries when
// not positive). A non-positive maxTTL leaves expiry to the per-entry ttl.
func NewMemoryStore(maxEntries int, maxTTL time.Duration) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryStore{
		cache: expirable.NewLRU[string, memoryItem](maxEntries, nil, maxTTL),
		now:   time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	item, ok := s.cache.Get(key)
	if !ok {
		return Entry{}, false, nil
	}
	if !s.now().Before(item.expiresAt) {
		s.cache.Remove(key)
		return Entry{}, false, nil
	}
	return item.entry, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, entry Entry, ttl time.Duration) error {
	now := s.now()
	s.sweep(now)
	s.cache.Add(key, memoryItem{entry: entry, expiresAt: now.Add(ttl)})
	return nil
}

// sweep drops expired entries at most once per sweepInterval.
func (s *MemoryStore) sweep(now time.Time) {
	s.mu.Lock()
	if now.Before(s.nextSweep) {
		s.mu.Unlock()
		return
	}
	s.nextSweep = now.Add(sweepInterval)
	s.mu.Unlock()

	for _, key := range s.cache.Keys() {
		if item, ok := s.cache.Peek(key); ok && !now.Before(item.expiresAt) {
			s.cache.Remove(key)
		}
	}
}

// Len returns the number of entries held, including expired ones not yet swept.
func (s *MemoryStore) Len() int {
	return s.cache.Len()
}
