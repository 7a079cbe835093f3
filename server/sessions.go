package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mergington/activityboard/board"
	"github.com/mergington/activityboard/server/handlers"
)

const (
	sessionCookie  = "activityboard_session"
	sessionIdleTTL = 30 * time.Minute
)

type sessionEntry struct {
	session  *board.Session
	lastSeen time.Time
}

// sessionStore maps visitor cookies to board sessions. Sessions idle for
// longer than ttl are dropped when the next new session is started.
type sessionStore struct {
	board *board.Board
	ttl   time.Duration
	now   func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

func newSessionStore(b *board.Board) *sessionStore {
	return &sessionStore{
		board:    b,
		ttl:      sessionIdleTTL,
		now:      time.Now,
		sessions: make(map[string]*sessionEntry),
	}
}

// Session implements handlers.Sessions. An unknown or expired cookie starts a
// new session and sets a fresh cookie.
func (s *sessionStore) Session(w http.ResponseWriter, r *http.Request) handlers.Board {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, err := r.Cookie(sessionCookie); err == nil {
		if e, ok := s.sessions[c.Value]; ok && now.Sub(e.lastSeen) <= s.ttl {
			e.lastSeen = now
			return e.session
		}
	}

	s.prune(now)
	id := uuid.NewString()
	e := &sessionEntry{session: s.board.NewSession(), lastSeen: now}
	s.sessions[id] = e

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return e.session
}

func (s *sessionStore) prune(now time.Time) {
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.sessions, id)
		}
	}
}
