// Package socket exposes the session engine over a websocket so a client can
// hold one connection for a whole conversation.
package socket

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	chatService "github.com/zhouzirui/eureka/backend/internal/service/chat"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

// Frame types.
const (
	TypeSelect = "select"
	TypeChat   = "chat"
	TypeReset  = "reset"

	TypeConnected = "connected"
	TypeSelected  = "selected"
	TypeTurn      = "turn"
	TypeResetDone = "reset_done"
	TypeError     = "error"
)

// Engine is the subset of the session engine the socket drives.
type Engine interface {
	CreateSession(ctx context.Context, personaID string) (chatService.Created, error)
	Advance(ctx context.Context, req chatService.Request) (chatService.Turn, error)
	Reset(ctx context.Context, id string) error
}

type inboundMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Persona   string `json:"gpt_type"`
	Message   string `json:"message"`
}

type outgoingMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Handler upgrades GET /ws and serves select/chat/reset frames.
type Handler struct {
	engine      Engine
	logger      *zap.Logger
	upgrader    websocket.Upgrader
	readTimeout time.Duration
}

// New builds a socket handler. allowedOrigins follows the CORS rules: "*"
// accepts any origin.
func New(engine Engine, allowedOrigins []string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		engine:      engine,
		logger:      logger.With(zap.String("component", "socket")),
		readTimeout: readTimeout,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.handleWebSocket)
}

// conn serializes writes; gorilla allows one concurrent writer.
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) write(msg outgoingMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg.Timestamp = time.Now().Unix()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteJSON(msg)
}

func (c *conn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", zap.Error(err))
		return
	}
	defer ws.Close()

	c := &conn{ws: ws}
	ctx, cancel := context.WithCancel(r.Context())

	_ = ws.SetReadDeadline(time.Now().Add(h.readTimeout))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(h.readTimeout))
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.pingLoop(ctx, c)
	}()
	defer wg.Wait()
	defer cancel()

	h.send(c, outgoingMessage{Type: TypeConnected})

	for {
		var msg inboundMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Info("read failed", zap.Error(err))
			}
			return
		}
		// A turn can hold the connection for two model calls; the idle
		// window starts once it is answered.
		h.handleMessage(ctx, c, &msg)
		_ = ws.SetReadDeadline(time.Now().Add(h.readTimeout))
	}
}

func (h *Handler) handleMessage(ctx context.Context, c *conn, msg *inboundMessage) {
	switch msg.Type {
	case TypeSelect:
		created, err := h.engine.CreateSession(ctx, msg.Persona)
		if err != nil {
			h.fail(c, msg.SessionID, "select persona", err)
			return
		}
		h.send(c, outgoingMessage{Type: TypeSelected, SessionID: created.SessionID, Data: created})

	case TypeChat:
		turn, err := h.engine.Advance(ctx, chatService.Request{
			SessionID: msg.SessionID,
			Persona:   msg.Persona,
			Message:   msg.Message,
		})
		if err != nil {
			h.fail(c, msg.SessionID, "advance session", err)
			return
		}
		h.send(c, outgoingMessage{Type: TypeTurn, SessionID: turn.SessionID, Data: turn})

	case TypeReset:
		if msg.SessionID == "" {
			h.sendError(c, "", "session_id is required")
			return
		}
		if err := h.engine.Reset(ctx, msg.SessionID); err != nil {
			h.fail(c, msg.SessionID, "reset session", err)
			return
		}
		h.send(c, outgoingMessage{
			Type:      TypeResetDone,
			SessionID: msg.SessionID,
			Data:      map[string]string{"status": "reset", "session_id": msg.SessionID},
		})

	default:
		h.sendError(c, msg.SessionID, "unsupported message type: "+msg.Type)
	}
}

func (h *Handler) fail(c *conn, sessionID, op string, err error) {
	h.logger.Error(op+" failed", zap.String("session_id", sessionID), zap.Error(err))
	h.sendError(c, sessionID, "internal error")
}

func (h *Handler) send(c *conn, msg outgoingMessage) {
	if err := c.write(msg); err != nil {
		h.logger.Debug("write failed", zap.String("type", msg.Type), zap.Error(err))
	}
}

func (h *Handler) sendError(c *conn, sessionID, message string) {
	h.send(c, outgoingMessage{Type: TypeError, SessionID: sessionID, Data: map[string]string{"message": message}})
}

func (h *Handler) pingLoop(ctx context.Context, c *conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}
