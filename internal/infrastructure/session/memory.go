// Package session provides the server-side session store backends.
package session

import (
	"context"
	"sync"
	"time"

	"client-gate/internal/domain"
)

// memoryEntry holds a stored session with its hard expiry.
type memoryEntry struct {
	session   domain.Session
	expiresAt time.Time
}

// MemoryStore is a thread-safe in-memory session store with TTL.
// Implements domain.SessionStore. Suitable for single-instance deployments;
// multi-instance setups use the Redis backend.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
	ttl     time.Duration
}

// NewMemoryStore creates a new in-memory session store with the given hard
// TTL. The TTL bounds storage only; the idle timeout is enforced by the gate.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*memoryEntry),
		ttl:     ttl,
	}
	go s.cleanupLoop()
	return s
}

// Get retrieves a session by ID.
func (s *MemoryStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, found := s.entries[id]
	if !found {
		return nil, domain.ErrSessionNotFound
	}
	if time.Now().After(entry.expiresAt) {
		// The sweep will collect the entry; report the distinction now.
		return nil, domain.ErrSessionExpired
	}

	session := entry.session
	session.ID = id
	return &session, nil
}

// Put stores a session, resetting its hard expiry.
func (s *MemoryStore) Put(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[session.ID] = &memoryEntry{
		session:   *session,
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

// Delete removes a session. Deleting an absent session is not an error.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
	return nil
}

// DeleteByUID removes every session belonging to the given identity.
func (s *MemoryStore) DeleteByUID(_ context.Context, uid string) error {
	if uid == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, entry := range s.entries {
		if entry.session.User.UID() == uid {
			delete(s.entries, id)
		}
	}
	return nil
}

// cleanup removes expired entries.
func (s *MemoryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, id)
		}
	}
}

// cleanupLoop runs periodic cleanup of expired entries.
func (s *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.cleanup()
	}
}
