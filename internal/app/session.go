package app

import (
	"sync"

	"mealwise/internal/shopping"
)

// Session is a shopping list with its own acquired flags, bound to a planner.
// Each chat gets one so ticking items off in one chat leaves others alone.
type Session struct {
	mu      sync.Mutex
	planner *Planner
	list    *shopping.List
}

// NewSession creates an empty session; call Refresh to fill it.
func (p *Planner) NewSession() *Session {
	return &Session{planner: p, list: shopping.NewList()}
}

// Refresh regenerates the items from the planner's current week and
// returns the visible ones. All acquired flags are reset.
func (s *Session) Refresh() []shopping.Item {
	items := s.planner.generate()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.list.Reset(items)
	return s.list.Visible()
}

// ToggleAt flips the n-th visible item (1-based).
func (s *Session) ToggleAt(n int) (shopping.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.ToggleAt(n)
}

// Toggle flips an item by id.
func (s *Session) Toggle(itemID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.Toggle(itemID)
}

// MarkAcquired marks an item by id as bought; repeating it has no further effect.
func (s *Session) MarkAcquired(itemID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.MarkAcquired(itemID)
}

// Visible returns the unacquired items.
func (s *Session) Visible() []shopping.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.Visible()
}

// Items returns every item, acquired or not.
func (s *Session) Items() []shopping.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.Items()
}

// Len returns the number of items, acquired or not.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.Len()
}
