package ws

import (
	"sync"
	"time"
)

// wireConn is the slice of *websocket.Conn the engine needs. Tests swap in
// an in-memory fake.
type wireConn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

type clientConn struct {
	id  string // for log correlation only
	raw wireConn
	mu  sync.Mutex
}

func (c *clientConn) write(mt int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.raw.SetWriteDeadline(time.Now().Add(writeWait))
	return c.raw.WriteMessage(mt, data) // Text/Binary only
}

// close terminates the transport. Safe to call more than once; the reader
// loop observing the closed transport drives the actual teardown.
func (c *clientConn) close() {
	_ = c.raw.Close()
}
