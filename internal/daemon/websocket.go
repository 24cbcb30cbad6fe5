package daemon

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/felixgeelhaar/devgenius/internal/domain"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WebSocket message types
const (
	wsTypeChat     = "chat"
	wsTypePing     = "ping"
	wsTypeReply    = "reply"
	wsTypePong     = "pong"
	wsTypeError    = "error"
	wsTypeGreeting = "greeting"
)

const (
	wsMaxMessageBytes = 64 << 10
	wsWriteTimeout    = 10 * time.Second
)

// wsMessage is the frame exchanged on /v1/chat/ws in both directions
type wsMessage struct {
	Type    string       `json:"type"`
	ID      string       `json:"id,omitempty"`
	Content string       `json:"content"`
	Mode    domain.Mode  `json:"mode,omitempty"`
	Topic   domain.Topic `json:"topic,omitempty"`
	Source  string       `json:"source,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: localOrigin,
}

// localOrigin accepts non-browser clients and pages served from this machine
func localOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// wsConn serializes writes to a connection
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) send(msg wsMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return c.conn.WriteJSON(msg)
}

func (s *Server) handleChatWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := GetCorrelationID(r.Context())

	// The hijacked handshake only carries headers passed here
	header := http.Header{}
	header.Set(CorrelationIDHeader, sessionID)

	conn, err := upgrader.Upgrade(w, r, header)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsMaxMessageBytes)

	c := &wsConn{conn: conn}
	slog.Info("websocket connected", "correlation_id", sessionID)

	// The greeting reflects the stored mode at connect time
	greeting, mode, err := s.tutor.Greeting(r.Context())
	if err != nil {
		slog.Error("websocket greeting failed", "error", err)
		return
	}
	if err := c.send(wsMessage{Type: wsTypeGreeting, Content: greeting, Mode: mode}); err != nil {
		return
	}

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("websocket read error", "correlation_id", sessionID, "error", err)
			}
			break
		}

		if err := c.send(s.handleWSMessage(r.Context(), clientKey(r), msg)); err != nil {
			slog.Warn("websocket write error", "correlation_id", sessionID, "error", err)
			break
		}
	}

	slog.Info("websocket disconnected", "correlation_id", sessionID)
}

// handleWSMessage produces the response frame for one inbound frame. Chat
// frames draw from the same per-client budget as POST /v1/chat.
func (s *Server) handleWSMessage(ctx context.Context, client string, msg wsMessage) wsMessage {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}

	switch msg.Type {
	case wsTypePing:
		return wsMessage{Type: wsTypePong, ID: msg.ID}

	case wsTypeChat:
		if !s.allowAdvice(ctx, client) {
			slog.Warn("rate limit exceeded", "client", client, "path", "/v1/chat/ws")
			return wsMessage{Type: wsTypeError, ID: msg.ID, Content: errTooManyRequests}
		}
		result, err := s.tutor.Chat(ctx, msg.Content, msg.Mode)
		if err != nil {
			return wsMessage{Type: wsTypeError, ID: msg.ID, Content: wsErrorText(err)}
		}
		return wsMessage{
			Type:    wsTypeReply,
			ID:      msg.ID,
			Content: result.Reply,
			Mode:    result.Mode,
			Topic:   result.Topic,
			Source:  result.Source,
		}

	default:
		return wsMessage{Type: wsTypeError, ID: msg.ID, Content: "unknown message type: " + msg.Type}
	}
}

func wsErrorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "message is empty"
	case statusFor(err) == http.StatusInternalServerError:
		slog.Error("websocket chat failed", "error", err)
		return "internal error"
	default:
		return err.Error()
	}
}
