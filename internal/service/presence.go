package service

import (
	"sync"

	"supportchat-backend/internal/model"
)

// Presence tracks which users are currently connected. It is a pure
// in-memory cache: empty at process start, gone at process end. Regular
// users are additionally indexed by user id so a reconnect overwrites the
// stale mapping; support connections are not indexed (several support
// connections may share one identity).
type Presence struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session // conn id -> session
	byUser   map[string]string         // user id -> conn id, regular users only
}

func NewPresence() *Presence {
	return &Presence{
		sessions: make(map[string]*model.Session),
		byUser:   make(map[string]string),
	}
}

// Put registers a session under its connection id, overwriting any prior
// entry for the same connection.
func (p *Presence) Put(s *model.Session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessions[s.ConnID] = s
	if !model.IsSupportRole(s.Role) {
		p.byUser[s.UserID] = s.ConnID
	}
}

func (p *Presence) Get(connID string) (*model.Session, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.sessions[connID]
	return s, ok
}

// Remove deletes the session for connID and returns it. Removing an
// unknown connection is a no-op. The user index entry is only dropped if
// it still points at this connection, so a reconnect that already
// overwrote it is left intact.
func (p *Presence) Remove(connID string) (*model.Session, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.sessions[connID]
	if !ok {
		return nil, false
	}
	delete(p.sessions, connID)
	if !model.IsSupportRole(s.Role) && p.byUser[s.UserID] == connID {
		delete(p.byUser, s.UserID)
	}
	return s, true
}

// List returns a snapshot of all sessions, in no particular order.
func (p *Presence) List() []*model.Session {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*model.Session, 0, len(p.sessions))
	for _, s := range p.sessions {
		out = append(out, s)
	}
	return out
}

// ListByRole returns a snapshot of sessions with the exact role.
func (p *Presence) ListByRole(role string) []*model.Session {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []*model.Session
	for _, s := range p.sessions {
		if s.Role == role {
			out = append(out, s)
		}
	}
	return out
}

// ConnForUser returns the connection id currently mapped to a regular
// user, if any.
func (p *Presence) ConnForUser(userID string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	connID, ok := p.byUser[userID]
	return connID, ok
}
