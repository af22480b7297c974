package ws

import (
	"errors"
	"io"
	"sync"
	"time"
)

// fakeWire is an in-memory wireConn for unit tests.
type fakeWire struct {
	mu       sync.Mutex
	frames   [][]byte
	writeErr error
	closed   bool
}

func (f *fakeWire) ReadMessage() (int, []byte, error) {
	return 0, nil, io.EOF
}

func (f *fakeWire) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	f.frames = append(f.frames, cp)
	return nil
}

func (f *fakeWire) SetWriteDeadline(time.Time) error { return nil }

func (f *fakeWire) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeWire) received() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]byte, len(f.frames))
	copy(out, f.frames)
	return out
}

func (f *fakeWire) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

var errWireBroken = errors.New("wire broken")

func newFakeConn(id string) (*clientConn, *fakeWire) {
	w := &fakeWire{}
	return &clientConn{id: id, raw: w}, w
}
