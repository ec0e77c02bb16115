package pending

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	kind      Kind
	expiresAt time.Time
}

type MemoryStore struct {
	mu      sync.Mutex
	entries map[int64]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore keeps entries in process memory. A zero ttl never expires them.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[int64]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, adminID int64) (Kind, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.lookup(adminID)
	if !ok {
		return "", false, nil
	}
	return entry.kind, true, nil
}

func (s *MemoryStore) Set(_ context.Context, adminID int64, kind Kind) error {
	if _, err := ParseKind(string(kind)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := memoryEntry{kind: kind}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}
	s.entries[adminID] = entry
	return nil
}

func (s *MemoryStore) Take(_ context.Context, adminID int64) (Kind, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.lookup(adminID)
	if !ok {
		return "", false, nil
	}
	delete(s.entries, adminID)
	return entry.kind, true, nil
}

func (s *MemoryStore) Clear(_ context.Context, adminID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, adminID)
	return nil
}

// Sweep drops expired entries and returns how many were removed.
func (s *MemoryStore) Sweep(_ context.Context) int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, entry := range s.entries {
		if entry.expired(now) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// lookup must be called with mu held.
func (s *MemoryStore) lookup(adminID int64) (memoryEntry, bool) {
	entry, ok := s.entries[adminID]
	if !ok {
		return memoryEntry{}, false
	}
	if entry.expired(s.now()) {
		delete(s.entries, adminID)
		return memoryEntry{}, false
	}
	return entry, true
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}
