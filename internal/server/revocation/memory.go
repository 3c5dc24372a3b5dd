package revocation

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the single-process fallback used when no Redis address is
// configured. Expired entries are dropped on write.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]time.Time), now: time.Now}
}

func (s *MemoryStore) Revoke(_ context.Context, jti string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, exp := range s.entries {
		if !exp.After(now) {
			delete(s.entries, k)
		}
	}
	if until.After(now) {
		s.entries[jti] = until
	}
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.entries[jti]
	return ok && exp.After(s.now()), nil
}
