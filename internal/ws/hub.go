package ws

import (
	"sync"
)

// Hub is the room directory: room name ➜ set of member connections.
// Rooms are created on first join and deliberately never removed when they
// empty out, so "room exists iff previously joined" keeps holding for late
// broadcasts.
type Hub struct {
	rooms sync.Map // room name -> *room
}

func NewHub() *Hub { return &Hub{} }

// Join adds c to the named room, creating it if needed, and returns the
// member count after the join.
func (h *Hub) Join(name string, c *clientConn) int {
	r, _ := h.rooms.LoadOrStore(name, newRoom())
	return r.(*room).add(c)
}

// Leave removes c from the named room and returns the member count after
// the removal. Unknown rooms and repeated leaves are no-ops.
func (h *Hub) Leave(name string, c *clientConn) int {
	if v, ok := h.rooms.Load(name); ok {
		_, n := v.(*room).remove(c)
		return n
	}
	return 0
}

// Members returns an immutable snapshot of the room's connections.
func (h *Hub) Members(name string) []*clientConn {
	if v, ok := h.rooms.Load(name); ok {
		return v.(*room).snapshot()
	}
	return nil
}

func (h *Hub) Count(name string) int {
	if v, ok := h.rooms.Load(name); ok {
		return v.(*room).size()
	}
	return 0
}

func (h *Hub) Broadcast(name string, msg []byte) {
	if v, ok := h.rooms.Load(name); ok {
		v.(*room).broadcast(msg)
	}
}
