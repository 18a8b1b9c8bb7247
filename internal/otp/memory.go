package otp

import (
	"sync"
	"time"
)

type memoryEntry struct {
	code      string
	expiresAt time.Time
}

// MemoryStore is a process-local Store backed by a mutex-guarded map.
// Verify-and-consume is atomic per key, so one code can never be redeemed
// by two concurrent requests. It does not survive restarts and does not
// share state across server processes; deployments with more than one
// instance must use the Redis-backed store instead.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Store saves the code for phone, overwriting any previous entry.
func (s *MemoryStore) Store(phone, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[phone] = memoryEntry{
		code:      code,
		expiresAt: s.now().Add(codeTTL),
	}
	return nil
}

// Verify checks and consumes the code for phone.
func (s *MemoryStore) Verify(phone, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[phone]
	if !ok {
		return ErrNotFound
	}

	if s.now().After(entry.expiresAt) {
		delete(s.entries, phone)
		return ErrExpired
	}

	if entry.code != code {
		return ErrMismatch
	}

	delete(s.entries, phone)
	return nil
}
