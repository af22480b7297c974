package ws

import (
	"sync"
)

// Session is the live binding of a connection to an identity and a room.
// It never changes after Register; rejoining requires a new connection.
type Session struct {
	ID       string
	Identity string
	Room     string

	conn *clientConn
}

// Registry maps live connections to their Sessions. Presence in the map
// means the connection has completed the login handshake. It is the single
// source of truth for "who is connected as whom".
type Registry struct {
	mu       sync.RWMutex
	sessions map[*clientConn]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[*clientConn]*Session)}
}

// Register binds conn to identity and room. Identities are not unique:
// several connections may carry the same identity at once.
func (r *Registry) Register(conn *clientConn, identity, room string) *Session {
	sess := &Session{ID: conn.id, Identity: identity, Room: room, conn: conn}

	r.mu.Lock()
	r.sessions[conn] = sess
	r.mu.Unlock()
	return sess
}

func (r *Registry) Lookup(conn *clientConn) (*Session, bool) {
	r.mu.RLock()
	sess, ok := r.sessions[conn]
	r.mu.RUnlock()
	return sess, ok
}

// Unregister removes conn and returns its Session. It is the authoritative
// "this connection is gone" signal and is idempotent: the second call for
// the same conn reports false and has no side effects.
func (r *Registry) Unregister(conn *clientConn) (*Session, bool) {
	r.mu.Lock()
	sess, ok := r.sessions[conn]
	if ok {
		delete(r.sessions, conn)
	}
	r.mu.Unlock()
	return sess, ok
}

// SessionsFor snapshots every session currently registered under identity.
func (r *Registry) SessionsFor(identity string) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Session
	for _, sess := range r.sessions {
		if sess.Identity == identity {
			out = append(out, sess)
		}
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
