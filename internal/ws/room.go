package ws

import (
	"sync"

	"github.com/gorilla/websocket"
)

type room struct {
	mu    sync.RWMutex
	conns map[*clientConn]struct{}
}

func newRoom() *room { return &room{conns: map[*clientConn]struct{}{}} }

// add returns the member count after the join.
func (r *room) add(c *clientConn) int {
	r.mu.Lock()
	r.conns[c] = struct{}{}
	n := len(r.conns)
	r.mu.Unlock()
	return n
}

// remove is idempotent; it reports whether c was a member and the count
// after the removal, so a broadcast-triggered removal racing a natural
// disconnect is safe.
func (r *room) remove(c *clientConn) (bool, int) {
	r.mu.Lock()
	_, ok := r.conns[c]
	if ok {
		delete(r.conns, c)
	}
	n := len(r.conns)
	r.mu.Unlock()
	return ok, n
}

func (r *room) size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// snapshot copies the member set so callers can iterate while joins and
// leaves keep mutating the room.
func (r *room) snapshot() []*clientConn {
	r.mu.RLock()
	conns := make([]*clientConn, 0, len(r.conns))
	for c := range r.conns {
		conns = append(conns, c)
	}
	r.mu.RUnlock()
	return conns
}

// broadcast delivers msg to a snapshot of the members. A failed send never
// aborts the batch; failed members are dropped from the room after the
// iteration and their transport closed so their own reader observes the
// failure and runs the full teardown.
func (r *room) broadcast(msg []byte) {
	conns := r.snapshot()

	// Do the I/O outside the lock
	var failed []*clientConn
	for _, c := range conns {
		if err := c.write(websocket.TextMessage, msg); err != nil {
			failed = append(failed, c)
		}
	}
	for _, c := range failed {
		r.remove(c)
		c.close()
	}
}
