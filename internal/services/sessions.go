package services

import (
	"sync"

	"vkinder-bot/internal/models"

	"github.com/google/uuid"
)

// Session is the in-memory discovery state of one user
type Session struct {
	SearchID uuid.UUID
	Stream   CandidateStream
	Current  *models.Candidate
}

// SessionStore keeps discovery sessions keyed by user id.
// Sessions are never evicted and are lost on restart.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	locks    map[int64]*sync.Mutex
}

// NewSessionStore creates an empty session store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[int64]*Session),
		locks:    make(map[int64]*sync.Mutex),
	}
}

// Seed registers an empty session for every known user
func (s *SessionStore) Seed(userIDs []int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range userIDs {
		if _, ok := s.sessions[id]; !ok {
			s.sessions[id] = &Session{}
		}
	}
}

// Has reports whether the user has a session
func (s *SessionStore) Has(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[userID]
	return ok
}

// Get returns the user's session, creating an empty one if needed
func (s *SessionStore) Get(userID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[userID]
	if !ok {
		session = &Session{}
		s.sessions[userID] = session
	}
	return session
}

// Len returns the number of sessions
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Lock serializes work for one user and returns the unlock function
func (s *SessionStore) Lock(userID int64) func() {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}
