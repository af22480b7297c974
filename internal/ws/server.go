package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"chatrelay/internal/auth"
	"chatrelay/internal/services/chatlog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait       = 10 * time.Second
	maxMessageSize  = 4096
	dispatchTimeout = 1900 * time.Millisecond
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true }, // dev-only
}

type WsServer struct {
	hub      *Hub
	registry *Registry
	router   *Router
	mod      *Moderator
	verifier auth.Verifier
	chatLog  chatlog.IChatLogService
}

func NewWsServer(h *Hub, reg *Registry, mod *Moderator, verifier auth.Verifier, chatLog chatlog.IChatLogService) *WsServer {
	srv := &WsServer{
		hub:      h,
		registry: reg,
		router:   NewRouter(),
		mod:      mod,
		verifier: verifier,
		chatLog:  chatLog,
	}
	srv.registerHandlers() // ← all WS event types configured here
	return srv
}

// ---------------------------------------------------------------------------
//  Public: Gin entry-point
// ---------------------------------------------------------------------------

func (s *WsServer) Handle(ginCtx *gin.Context) {
	rawConn, err := upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		zap.L().Warn("ws.upgrade", zap.Error(err))
		return
	}
	rawConn.SetReadLimit(maxMessageSize)

	conn := &clientConn{id: uuid.NewString(), raw: rawConn}
	go s.reader(conn)
}

// ---------------------------------------------------------------------------
//  Connection lifecycle
// ---------------------------------------------------------------------------

// reader owns the connection from handshake to teardown. The session moves
// Unauthenticated → Active → Closed; the deferred teardown is the single
// exit path for every termination cause.
func (s *WsServer) reader(conn *clientConn) {
	defer s.teardown(conn)

	sess, err := s.handshake(conn)
	if err != nil {
		zap.L().Debug("ws.handshake_refused", zap.String("conn", conn.id), zap.Error(err))
		return
	}

	cc := &ConnContext{Session: sess, conn: conn}
	for {
		_, data, err := conn.raw.ReadMessage()
		if err != nil {
			return // client closed, kicked, or transport error
		}

		eventType, raw, err := decodeFrame(data)
		if err == nil {
			ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
			err = s.router.dispatch(ctx, cc, eventType, raw)
			cancel()
		}
		// Delivery and persistence failures are swallowed inside the
		// handlers; anything surfacing here ends the session.
		if err != nil {
			zap.L().Debug("ws.dispatch",
				zap.String("conn", conn.id),
				zap.String("identity", sess.Identity),
				zap.Error(err))
			return
		}
	}
}

// handshake reads the first frame, which must be a login event. The ban
// list is checked here, once, before any registration: a banned identity
// never gets a session and never triggers a join broadcast.
func (s *WsServer) handshake(conn *clientConn) (*Session, error) {
	_, data, err := conn.raw.ReadMessage()
	if err != nil {
		return nil, err
	}

	eventType, raw, err := decodeFrame(data)
	if err != nil {
		return nil, err
	}
	if eventType != eventLogin {
		return nil, ErrProtocolViolation
	}

	var ev LoginEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, ErrProtocolViolation
	}
	if ev.Room == "" {
		return nil, ErrProtocolViolation
	}

	credential := ev.Token
	if credential == "" {
		credential = ev.Identity
	}
	identity, err := s.verifier.Verify(credential)
	if err != nil {
		return nil, err
	}

	if s.mod.IsBanned(identity) {
		return nil, errBanned
	}

	sess := s.registry.Register(conn, identity, ev.Room)
	count := s.hub.Join(ev.Room, conn)
	s.broadcastSystem(ev.Room, identity+" joined", count)

	zap.L().Info("ws.joined",
		zap.String("conn", conn.id),
		zap.String("identity", identity),
		zap.String("room", ev.Room),
		zap.Int("online", count))
	return sess, nil
}

// teardown runs exactly once per connection, whatever ended it: client
// close, protocol violation, send failure or a moderation kick. The
// idempotent Unregister is the gate.
func (s *WsServer) teardown(conn *clientConn) {
	defer conn.close()

	sess, ok := s.registry.Unregister(conn)
	if !ok {
		return // handshake never completed, or already torn down
	}

	count := s.hub.Leave(sess.Room, conn)
	s.broadcastSystem(sess.Room, sess.Identity+" left", count)

	zap.L().Info("ws.left",
		zap.String("conn", conn.id),
		zap.String("identity", sess.Identity),
		zap.String("room", sess.Room),
		zap.Int("online", count))
}

// ---------------------------------------------------------------------------
//  Active-state event handlers
// ---------------------------------------------------------------------------

func (s *WsServer) registerHandlers() {
	// 🔹 chat — room fan-out, persisted -------------------------------------
	Register(s.router, eventChat,
		func(ctx context.Context, cc *ConnContext, ev ChatEvent) error {
			if ev.Text == "" {
				return ErrProtocolViolation
			}
			now := time.Now()
			if err := s.chatLog.RecordMessage(ctx, cc.Session.Room, cc.Session.Identity, ev.Text, now); err != nil {
				zap.L().Warn("chatlog.record", zap.String("room", cc.Session.Room), zap.Error(err))
			}
			data, _ := json.Marshal(ChatPayload{
				Type:     eventChat,
				Identity: cc.Session.Identity,
				Text:     ev.Text,
				Time:     now.Unix(),
			})
			s.hub.Broadcast(cc.Session.Room, data)
			return nil
		})

	// 🔹 private — identity fan-out, never persisted ------------------------
	Register(s.router, eventPrivate,
		func(ctx context.Context, cc *ConnContext, ev PrivateEvent) error {
			if ev.To == "" || ev.Text == "" {
				return ErrProtocolViolation
			}
			data, _ := json.Marshal(PrivatePayload{
				Type: eventPrivate,
				From: cc.Session.Identity,
				Text: ev.Text,
				Time: time.Now().Unix(),
			})
			s.routeDirect(ev.To, data)
			return nil
		})

	// 🔹 kick — privileged forced disconnect --------------------------------
	Register(s.router, eventKick,
		func(ctx context.Context, cc *ConnContext, ev KickEvent) error {
			if ev.Target == "" {
				return ErrProtocolViolation
			}
			if !s.mod.CanModerate(cc.Session.Identity) {
				return nil // silently refused, connection stays open
			}
			s.kick(ev.Target)
			return nil
		})

	// 🔹 ban — refuse future handshakes -------------------------------------
	Register(s.router, eventBan,
		func(ctx context.Context, cc *ConnContext, ev BanEvent) error {
			if ev.Target == "" {
				return ErrProtocolViolation
			}
			if s.mod.Ban(cc.Session.Identity, ev.Target) {
				zap.L().Info("ws.banned",
					zap.String("by", cc.Session.Identity),
					zap.String("target", ev.Target))
			}
			return nil
		})
}

// routeDirect delivers to every registered session of the target identity
// and to no one else. Per-recipient failures are dropped; room membership
// is never touched here.
func (s *WsServer) routeDirect(identity string, data []byte) {
	for _, target := range s.registry.SessionsFor(identity) {
		if err := target.conn.write(websocket.TextMessage, data); err != nil {
			zap.L().Debug("ws.private_send",
				zap.String("to", identity),
				zap.String("conn", target.conn.id),
				zap.Error(err))
		}
	}
}

// kick closes the transport of every live session of the target. Each
// closed connection's own reader observes the failure and runs the normal
// teardown, so every connection departs exactly once.
func (s *WsServer) kick(identity string) {
	for _, sess := range s.registry.SessionsFor(identity) {
		sess.conn.close()
	}
}

func (s *WsServer) broadcastSystem(roomName, message string, count int) {
	data, _ := json.Marshal(SystemPayload{
		Type:        eventSystem,
		Message:     message,
		Time:        time.Now().Unix(),
		OnlineCount: count,
	})
	s.hub.Broadcast(roomName, data)
}
