package server

import (
	"context"
	"sync"
	"time"

	"github.com/desertthunder/tapedeck/internal/services"
	"github.com/desertthunder/tapedeck/internal/shared"
	"golang.org/x/oauth2"
)

// SessionCookie names the cookie carrying the session ID.
const SessionCookie = "tapedeck_session"

const (
	stateTTL   = 10 * time.Minute
	sessionTTL = 7 * 24 * time.Hour
)

type sessionKey struct{}

type sessionEntry struct {
	session *services.Session
	expires time.Time
}

// SessionStore keeps authenticated catalog sessions and pending OAuth states in memory.
//
// Sessions are lost on restart.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]sessionEntry
	states   map[string]time.Time
	now      func() time.Time
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]sessionEntry),
		states:   make(map[string]time.Time),
		now:      time.Now,
	}
}

// Create stores a session for token and returns its ID.
func (s *SessionStore) Create(token *oauth2.Token) string {
	id := shared.GenerateID()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = sessionEntry{session: services.NewSession(token), expires: s.now().Add(sessionTTL)}
	return id
}

// Get returns the session stored under id.
func (s *SessionStore) Get(id string) (*services.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if s.now().After(entry.expires) {
		delete(s.sessions, id)
		return nil, false
	}
	return entry.session, true
}

// Delete forgets a session.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// RememberState records a pending OAuth state.
func (s *SessionStore) RememberState(state string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for st, expires := range s.states {
		if now.After(expires) {
			delete(s.states, st)
		}
	}
	s.states[state] = now.Add(stateTTL)
}

// ConsumeState reports whether state is pending and unexpired. A state can be consumed once.
func (s *SessionStore) ConsumeState(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	expires, ok := s.states[state]
	if !ok {
		return false
	}
	delete(s.states, state)
	return !s.now().After(expires)
}

// WithSession returns a context carrying sess.
func WithSession(ctx context.Context, sess *services.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// SessionFrom returns the request's session, or nil.
func SessionFrom(ctx context.Context) *services.Session {
	sess, _ := ctx.Value(sessionKey{}).(*services.Session)
	return sess
}
