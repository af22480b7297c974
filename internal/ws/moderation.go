package ws

import (
	"sync"
)

// Moderator holds the ban list and the privilege check. The ban list lives
// for the process lifetime; entries never expire. Banning does not touch
// sessions that are already connected — that takes a kick.
type Moderator struct {
	admin  string
	mu     sync.RWMutex
	banned map[string]struct{}
}

func NewModerator(admin string) *Moderator {
	return &Moderator{admin: admin, banned: make(map[string]struct{})}
}

func (m *Moderator) CanModerate(identity string) bool {
	return identity == m.admin
}

// Ban adds target to the ban list if requester is privileged; otherwise it
// is a silent no-op. Reports whether the ban took effect.
func (m *Moderator) Ban(requester, target string) bool {
	if !m.CanModerate(requester) {
		return false
	}
	m.mu.Lock()
	m.banned[target] = struct{}{}
	m.mu.Unlock()
	return true
}

// IsBanned is consulted exactly once per connection, during handshake
// processing, before any registration happens.
func (m *Moderator) IsBanned(identity string) bool {
	m.mu.RLock()
	_, ok := m.banned[identity]
	m.mu.RUnlock()
	return ok
}
