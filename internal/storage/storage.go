package storage

import (
	"sync"

	"cardscan/internal/models"
)

// SessionStore holds the in-memory scan sessions. Nothing survives a
// restart; all state is session-scoped.
//
// Sessions cross the store boundary as copies in both directions: Set keeps
// its own clone and Get/GetAll return clones, so the store's records are
// only ever touched under the lock and callers can encode what they hold
// without synchronization.
type SessionStore struct {
	sessions map[string]*models.ScanSession
	mu       sync.RWMutex
}

func New() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*models.ScanSession),
	}
}

func (s *SessionStore) Get(sessionID string) (*models.ScanSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, exists := s.sessions[sessionID]
	if !exists {
		return nil, false
	}
	return session.Clone(), true
}

func (s *SessionStore) Set(sessionID string, session *models.ScanSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = session.Clone()
}

func (s *SessionStore) GetAll() map[string]*models.ScanSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]*models.ScanSession, len(s.sessions))
	for k, v := range s.sessions {
		result[k] = v.Clone()
	}
	return result
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Acquire sets the session's busy flag, returning false if an action is
// already in flight for it. One scan-or-translate runs at a time per
// session; this is a flag, not a queue.
func (s *SessionStore) Acquire(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, exists := s.sessions[sessionID]
	if !exists || session.Busy {
		return false
	}
	session.Busy = true
	return true
}

// Release clears the session's busy flag.
func (s *SessionStore) Release(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, exists := s.sessions[sessionID]; exists {
		session.Busy = false
	}
}
