package realtime

import (
	"sync"
	"time"
)

// parkedSession keeps a dropped connection's room set for a short
// window so a quick reconnect resumes without re-subscribing.
type parkedSession struct {
	userID    string
	rooms     []string
	expiresAt time.Time
}

// sessionStore holds parked sessions keyed by connection id.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]parkedSession
	grace    time.Duration
}

func newSessionStore(grace time.Duration) *sessionStore {
	return &sessionStore{
		sessions: make(map[string]parkedSession),
		grace:    grace,
	}
}

// Park stores a connection's rooms until the grace window expires.
// Expired entries are pruned on the way in.
func (s *sessionStore) Park(connID, userID string, rooms []string, now time.Time) {
	if s.grace == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, id)
		}
	}
	s.sessions[connID] = parkedSession{
		userID:    userID,
		rooms:     rooms,
		expiresAt: now.Add(s.grace),
	}
}

// Resume claims a parked session. The claim succeeds only for the same
// user inside the grace window; either way the entry is consumed.
func (s *sessionStore) Resume(connID, userID string, now time.Time) ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[connID]
	if !ok {
		return nil, false
	}
	delete(s.sessions, connID)
	if sess.userID != userID || now.After(sess.expiresAt) {
		return nil, false
	}
	return sess.rooms, true
}
