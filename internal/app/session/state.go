package session

import (
	"sync"

	"shopreco/internal/app/shop"
)

// Session tracks which user the page has selected. The zero value has no selection.
type Session struct {
	mu       sync.RWMutex
	selected shop.UserID
}

// Selected returns the current user and whether one is selected.
func (s *Session) Selected() (shop.UserID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected, s.selected != ""
}

// Select makes id the current user. An empty id clears the selection.
func (s *Session) Select(id shop.UserID) {
	s.mu.Lock()
	s.selected = id
	s.mu.Unlock()
}

// Clear drops the selection.
func (s *Session) Clear() {
	s.Select("")
}
