package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryEntry struct {
	entityID  uuid.UUID
	expiresAt time.Time
}

// InMemoryIdempotencyStore keeps request keys in process memory. It is
// the default when Redis is not configured; keys do not survive a
// restart and are not shared between instances.
type InMemoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewInMemoryIdempotencyStore creates an empty in-memory store
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Remember records a key if it is not already present. Expired entries
// are treated as absent and overwritten.
func (s *InMemoryIdempotencyStore) Remember(ctx context.Context, key string, entityID uuid.UUID, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if entry, ok := s.entries[key]; ok && entry.expiresAt.After(now) {
		return false, nil
	}

	s.entries[key] = memoryEntry{
		entityID:  entityID,
		expiresAt: now.Add(ttl),
	}
	s.sweep(now)
	return true, nil
}

// Lookup returns the entity recorded for a key
func (s *InMemoryIdempotencyStore) Lookup(ctx context.Context, key string) (uuid.UUID, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || !entry.expiresAt.After(s.now()) {
		return uuid.Nil, false, nil
	}
	return entry.entityID, true, nil
}

// Close releases nothing for the in-memory store
func (s *InMemoryIdempotencyStore) Close() error {
	return nil
}

// sweep drops expired entries. Called under the lock on every write so
// the map cannot grow without bound.
func (s *InMemoryIdempotencyStore) sweep(now time.Time) {
	for key, entry := range s.entries {
		if !entry.expiresAt.After(now) {
			delete(s.entries, key)
		}
	}
}
