package hub

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client is one websocket session subscribed to a room.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	roomCode  string
	sessionID string
	send      chan []byte
}

func NewClient(hub *Hub, conn *websocket.Conn, roomCode, sessionID string) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		roomCode:  roomCode,
		sessionID: sessionID,
		send:      make(chan []byte, 256),
	}
}

// Run starts the client's read and write pumps.
func (c *Client) Run() {
	go c.WritePump()
	go c.ReadPump()
}

// ReadPump drains the connection for control frames and detects
// disconnects. Subscribers only listen; inbound payloads are discarded.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.queueUnregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			logCtx := logrus.WithFields(logrus.Fields{"session_id": c.sessionID, "room_code": c.roomCode})
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logCtx.WithError(err).Warn("WebSocket read error (unexpected close)")
			} else {
				logCtx.Debug("WebSocket connection closed")
			}
			return
		}
	}
}

// WritePump pumps messages from the send channel to the connection and
// keeps it alive with periodic pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel during unregister.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logrus.WithFields(logrus.Fields{"session_id": c.sessionID, "room_code": c.roomCode}).
					WithError(err).Warn("Failed to write message to websocket")
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) RoomCode() string  { return c.roomCode }
func (c *Client) SessionID() string { return c.sessionID }
func (c *Client) CloseConn()        { c.conn.Close() }
