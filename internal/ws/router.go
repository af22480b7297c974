package ws

import (
	"context"
	"encoding/json"
	"sync"
)

// ConnContext is handed to every handler of an active session.
type ConnContext struct {
	Session *Session
	conn    *clientConn
}

// internal (untyped) handler signature.
type rawHandler func(ctx context.Context, c *ConnContext, body json.RawMessage) error

// Router keeps a map[event type]handler, à-la gin.Engine.
type Router struct {
	mu       sync.RWMutex
	handlers map[string]rawHandler
}

func NewRouter() *Router { return &Router{handlers: make(map[string]rawHandler)} }

// Register binds an event type to a strongly-typed handler. The frame is
// parsed into the handler's event type at the boundary; parse failures are
// protocol violations.
func Register[Req any](
	r *Router,
	eventType string,
	h func(ctx context.Context, c *ConnContext, req Req) error,
) {
	if eventType == "" {
		panic("ws router: empty event type")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.handlers[eventType] = func(ctx context.Context, c *ConnContext, body json.RawMessage) error {
		var req Req
		if err := json.Unmarshal(body, &req); err != nil {
			return ErrProtocolViolation
		}
		return h(ctx, c, req)
	}
}

// dispatch is called by the server's reader loop. An unrecognized event
// type is a protocol violation, never silently ignored.
func (r *Router) dispatch(ctx context.Context, c *ConnContext, eventType string, body json.RawMessage) error {
	r.mu.RLock()
	h, ok := r.handlers[eventType]
	r.mu.RUnlock()
	if !ok {
		return ErrProtocolViolation
	}
	return h(ctx, c, body)
}
