package api

import (
	"net/http"
	"sync"

	"github.com/google/uuid"

	"nba-chat/internal/chat"
)

const sessionCookie = "nba_session"

// Sessions holds one conversation log per browser session. Logs live for
// the lifetime of the process.
type Sessions struct {
	mu   sync.Mutex
	logs map[string]*chat.Log
}

func NewSessions() *Sessions {
	return &Sessions{logs: make(map[string]*chat.Log)}
}

// Lookup returns the caller's log, or nil when the request carries no known
// session cookie.
func (s *Sessions) Lookup(r *http.Request) *chat.Log {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, err := r.Cookie(sessionCookie); err == nil {
		return s.logs[c.Value]
	}
	return nil
}

// Get returns the caller's log, starting a new session when the request
// carries no known session cookie. Only submissions start sessions, so
// page views alone never grow the session map.
func (s *Sessions) Get(w http.ResponseWriter, r *http.Request) *chat.Log {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, err := r.Cookie(sessionCookie); err == nil {
		if l, ok := s.logs[c.Value]; ok {
			return l
		}
	}

	id := uuid.NewString()
	l := chat.NewLog()
	s.logs[id] = l
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return l
}

// Len returns the number of sessions
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.logs)
}
