package telegram

import (
	"sync"
	"time"

	"mealwise/internal/app"
)

// sessionTTL is how long an idle chat keeps its shopping list.
const sessionTTL = 24 * time.Hour

type chatSession struct {
	shopping  *app.Session
	expiresAt time.Time
}

// sessionRegistry keeps one shopping session per chat. Acquired flags are
// never persisted; an expired chat starts over with a fresh list.
type sessionRegistry struct {
	mu       sync.Mutex
	planner  *app.Planner
	sessions map[int64]*chatSession
	now      func() time.Time
}

func newSessionRegistry(planner *app.Planner) *sessionRegistry {
	return &sessionRegistry{
		planner:  planner,
		sessions: make(map[int64]*chatSession),
		now:      time.Now,
	}
}

// get returns the chat's session, creating it when missing or expired.
// fresh reports whether the session was just created.
func (r *sessionRegistry) get(chatID int64) (s *app.Session, fresh bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	cs, ok := r.sessions[chatID]
	if !ok || now.After(cs.expiresAt) {
		cs = &chatSession{shopping: r.planner.NewSession()}
		r.sessions[chatID] = cs
		fresh = true
	}
	cs.expiresAt = now.Add(sessionTTL)
	return cs.shopping, fresh
}

// cleanupExpired drops idle sessions and returns how many were removed.
func (r *sessionRegistry) cleanupExpired() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for id, cs := range r.sessions {
		if now.After(cs.expiresAt) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

func (r *sessionRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
