package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the default single-process session backend.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int32]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int32]*Session)}
}

func (s *MemoryStore) Get(_ context.Context, userID int32) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.sessions[userID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *stored
	return &copied, nil
}

func (s *MemoryStore) Put(_ context.Context, userID int32, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *session
	s.sessions[userID] = &copied
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
	return nil
}

func (s *MemoryStore) Sweep(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for userID, session := range s.sessions {
		if session.LastAccessTs < cutoff.Unix() {
			delete(s.sessions, userID)
			removed++
		}
	}
	return removed, nil
}

// Len reports the number of stored sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
