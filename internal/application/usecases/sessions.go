package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionStore keeps the live scheduling sessions of this process.
type SessionStore struct {
	base context.Context
	deps SessionDeps

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionStore(base context.Context, deps SessionDeps) *SessionStore {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	return &SessionStore{base: base, deps: deps, sessions: make(map[string]*Session)}
}

func (st *SessionStore) Create() *Session {
	s := NewSession(st.base, uuid.NewString(), st.deps)
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	st.deps.Log.Debug("sessions: created", zap.String("session_id", s.ID))
	return s
}

func (st *SessionStore) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	return s, ok
}

// GetOrCreate returns the session for id, or a fresh one when id is empty
// or unknown (for example after it was swept).
func (st *SessionStore) GetOrCreate(id string) (*Session, bool) {
	if id != "" {
		if s, ok := st.Get(id); ok {
			return s, false
		}
	}
	return st.Create(), true
}

func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep closes and forgets sessions idle since before now-idle.
func (st *SessionStore) Sweep(ctx context.Context, now time.Time, idle time.Duration) int {
	cutoff := now.Add(-idle)
	var stale []*Session
	st.mu.Lock()
	for id, s := range st.sessions {
		if s.LastSeen().Before(cutoff) {
			stale = append(stale, s)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, s := range stale {
		s.Close(ctx)
	}
	return len(stale)
}

func (st *SessionStore) CloseAll(ctx context.Context) {
	st.mu.Lock()
	all := make([]*Session, 0, len(st.sessions))
	for id, s := range st.sessions {
		all = append(all, s)
		delete(st.sessions, id)
	}
	st.mu.Unlock()

	for _, s := range all {
		s.Close(ctx)
	}
}
