package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_JoinLeaveCounts(t *testing.T) {
	hub := NewHub()
	a, _ := newFakeConn("a")
	b, _ := newFakeConn("b")

	assert.Equal(t, 1, hub.Join("lobby", a))
	assert.Equal(t, 2, hub.Join("lobby", b))
	assert.Equal(t, 2, hub.Count("lobby"))

	assert.Equal(t, 1, hub.Leave("lobby", a))
	// repeated leave is a no-op
	assert.Equal(t, 1, hub.Leave("lobby", a))
	assert.Equal(t, 0, hub.Leave("lobby", b))
}

func TestHub_LeaveUnknownRoom(t *testing.T) {
	hub := NewHub()
	a, _ := newFakeConn("a")
	assert.Equal(t, 0, hub.Leave("nowhere", a))
}

func TestHub_MembersIsSnapshot(t *testing.T) {
	hub := NewHub()
	a, _ := newFakeConn("a")
	b, _ := newFakeConn("b")
	hub.Join("lobby", a)
	hub.Join("lobby", b)

	snap := hub.Members("lobby")
	require.Len(t, snap, 2)

	hub.Leave("lobby", a)
	// earlier snapshot is unaffected by the mutation
	assert.Len(t, snap, 2)
	assert.Len(t, hub.Members("lobby"), 1)
}

func TestHub_EmptyRoomSurvives(t *testing.T) {
	hub := NewHub()
	a, _ := newFakeConn("a")
	hub.Join("lobby", a)
	hub.Leave("lobby", a)

	// the room entry is kept; broadcasting to it is a harmless no-op
	assert.Equal(t, 0, hub.Count("lobby"))
	hub.Broadcast("lobby", []byte(`{"type":"system"}`))
}

func TestHub_BroadcastDeliversToAllMembers(t *testing.T) {
	hub := NewHub()
	a, wa := newFakeConn("a")
	b, wb := newFakeConn("b")
	c, wc := newFakeConn("c")
	hub.Join("lobby", a)
	hub.Join("lobby", b)
	hub.Join("other", c)

	hub.Broadcast("lobby", []byte("hello"))

	assert.Len(t, wa.received(), 1)
	assert.Len(t, wb.received(), 1)
	assert.Empty(t, wc.received(), "other rooms must not receive")
}

func TestHub_BroadcastFailureRemovesOnlyFailedMember(t *testing.T) {
	hub := NewHub()
	a, wa := newFakeConn("a")
	b, wb := newFakeConn("b")
	c, wc := newFakeConn("c")
	hub.Join("lobby", a)
	hub.Join("lobby", b)
	hub.Join("lobby", c)

	wb.writeErr = errWireBroken
	hub.Broadcast("lobby", []byte("hello"))

	assert.Len(t, wa.received(), 1)
	assert.Len(t, wc.received(), 1)
	assert.Empty(t, wb.received())

	// failed member dropped from the directory and its transport closed
	assert.Equal(t, 2, hub.Count("lobby"))
	assert.True(t, wb.isClosed())
	assert.False(t, wa.isClosed())

	// next broadcast no longer attempts the dead member
	hub.Broadcast("lobby", []byte("again"))
	assert.Len(t, wa.received(), 2)
	assert.Empty(t, wb.received())
}

func TestHub_BroadcastUnknownRoomIsNoop(t *testing.T) {
	hub := NewHub()
	hub.Broadcast("nowhere", []byte("hello"))
}
