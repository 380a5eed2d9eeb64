package cache

import (
	"sync"
	"time"
)

type memoryEntry struct {
	payload   []byte
	fetchedAt time.Time
}

// MemoryStore is a thread-safe in-memory Gateway, used when no cache path is
// configured and as the default for tests.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttls    TTLPolicy
	now     func() time.Time
}

// NewMemoryStore constructs an empty MemoryStore with the given TTL policy.
func NewMemoryStore(ttls TTLPolicy) *MemoryStore {
	if ttls == nil {
		ttls = DefaultTTLs()
	}
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttls:    ttls,
		now:     time.Now,
	}
}

// GetIfFresh returns the payload for key when it exists and is younger than
// the namespace TTL. Stale entries are dropped on access.
func (s *MemoryStore) GetIfFresh(key, namespace string) ([]byte, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if s.now().Sub(entry.fetchedAt) > s.ttls.ttl(namespace) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false
	}

	out := make([]byte, len(entry.payload))
	copy(out, entry.payload)
	return out, true
}

// Put stores payload under key with the current time as fetch timestamp.
func (s *MemoryStore) Put(key string, payload []byte) error {
	stored := make([]byte, len(payload))
	copy(stored, payload)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{payload: stored, fetchedAt: s.now()}
	return nil
}

// Len reports how many entries are held, fresh or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
