package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 64 * 1024

	// Outgoing frames buffered per client before it is dropped.
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// client is one WebSocket connection watching a session.
type client struct {
	sessionID string
	conn      *websocket.Conn
	send      chan []byte
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ok, err := s.hub.HasSession(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeError(w, ErrSessionNotFound)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &client{sessionID: id, conn: conn, send: make(chan []byte, sendBuffer)}
	if !s.hub.join(c) {
		conn.Close()
		return
	}
	go c.writePump()
	c.readPump(s.hub, s.logger)
}

// readPump handles messages from the peer until the connection closes.
func (c *client) readPump(h *Hub, logger *zap.Logger) {
	defer func() {
		h.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	ctx := context.Background()
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket read", zap.Error(err))
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			if h.reply(ctx, c, wsMessage{Type: "error", Error: "invalid message: " + err.Error()}) != nil {
				return
			}
			continue
		}

		switch msg.Type {
		case "apply":
			if msg.Filters == nil {
				err = h.reply(ctx, c, wsMessage{Type: "error", Error: "apply requires filters"})
				break
			}
			// The refreshed dashboard reaches this client through the broadcast.
			if _, aerr := h.Apply(ctx, c.sessionID, *msg.Filters); aerr != nil {
				err = h.reply(ctx, c, wsMessage{Type: "error", Error: aerr.Error()})
			}
		case "dashboard":
			view, derr := h.Dashboard(ctx, c.sessionID)
			if derr != nil {
				err = h.reply(ctx, c, wsMessage{Type: "error", Error: derr.Error()})
				break
			}
			err = h.reply(ctx, c, wsMessage{Type: "dashboard", Data: view})
		default:
			err = h.reply(ctx, c, wsMessage{Type: "error", Error: "unknown message type: " + msg.Type})
		}
		if err != nil {
			return
		}
	}
}

// writePump sends queued frames and keepalive pings to the peer.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
