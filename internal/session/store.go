// Package session provides the in-memory session store consumed by the HTTP
// surface. A session binds an authenticated user to an opaque id and,
// optionally, to a club.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
)

// ErrNotFound is returned for unknown session ids.
var ErrNotFound = errors.New("session not found")

// Session is the authenticated state attached to an opaque session id. UserID
// becomes the actor id on every command the session issues.
type Session struct {
	UserID        string
	ClubID        string
	ExternalToken string
}

// Store holds sessions keyed by opaque id. Read-mostly; mutations are guarded.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]Session)}
}

// Create stores a session and returns its opaque id.
func (s *Store) Create(session Session) string {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	id := hex.EncodeToString(buf)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = session
	return id
}

// Get returns the session for an id.
func (s *Store) Get(id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return session, nil
}

// BindClub scopes a session to a club.
func (s *Store) BindClub(id, clubID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	session.ClubID = clubID
	s.sessions[id] = session
	return nil
}

// Delete removes a session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}
