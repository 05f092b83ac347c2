package websocket

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/snake-arena/internal/session"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Broadcast frames buffered per player before the oldest is dropped.
	eventBuffer = 16
)

// client is one player's WebSocket connection.
type client struct {
	server   *Server
	conn     *websocket.Conn
	playerID string
	handle   *session.ChannelSession

	// replies carries answers to this player's own frames. They are never
	// dropped, unlike broadcasts.
	replies chan []byte
	joined  bool
}

func newClient(s *Server, conn *websocket.Conn, playerID string) *client {
	return &client{
		server:   s,
		conn:     conn,
		playerID: playerID,
		handle:   session.NewChannelSession(playerID, eventBuffer),
		replies:  make(chan []byte, eventBuffer),
	}
}

// readPump reads frames until the connection fails. Every exit path,
// clean close, read error or missed pong, removes the player.
func (c *client) readPump() {
	logger := c.server.logger.With("player", c.playerID)
	defer func() {
		if c.joined {
			c.server.manager.Disconnect(c.playerID)
		}
		c.handle.Close()
		c.conn.Close()
		logger.Info("websocket closed")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				logger.Warn("websocket read failed", "err", err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Debug("ignoring malformed frame", "err", err)
			if c.joined {
				continue
			}
		}

		if !c.joined {
			c.join(msg)
			continue
		}

		switch {
		case msg.Direction != nil:
			upd := c.server.manager.Intent(c.playerID, *msg.Direction)
			c.reply(upd)
		case msg.Action == "reset":
			upd := c.server.manager.Reset(c.playerID)
			c.reply(upd)
		default:
			logger.Debug("ignoring frame without direction or action")
		}
	}
}

// join handles the first frame. A missing or blank name falls back to
// the arena default.
func (c *client) join(msg clientMessage) {
	name := ""
	if msg.PlayerName != nil {
		name = strings.TrimSpace(*msg.PlayerName)
	}
	upd := c.server.manager.Join(c.playerID, name, c.handle)
	c.joined = true
	c.reply(upd)
}

func (c *client) reply(upd session.Update) {
	data, err := encodeState(upd.Snapshot, upd.GameOver)
	if err != nil {
		c.server.logger.Error("failed to encode state", "player", c.playerID, "err", err)
		return
	}
	select {
	case c.replies <- data:
	case <-c.handle.Done():
	case <-c.server.done:
	}
}

// writePump is the only goroutine that writes to the connection.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.handle.Close()
		c.conn.Close()
	}()

	for {
		select {
		case data := <-c.replies:
			if err := c.write(websocket.TextMessage, data); err != nil {
				return
			}

		case evt := <-c.handle.Events():
			state, ok := evt.(session.StateEvent)
			if !ok {
				continue
			}
			data, err := encodeState(state.Snapshot, nil)
			if err != nil {
				c.server.logger.Error("failed to encode broadcast", "player", c.playerID, "err", err)
				continue
			}
			if err := c.write(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.handle.Done():
			return

		case <-c.server.done:
			_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return
		}
	}
}

func (c *client) write(messageType int, data []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}
