package hub

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client is one authenticated WebSocket connection.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID uint
	name   string
	send   chan []byte

	// Guarded by hub.roomsMu.
	rooms  map[string]struct{}
	closed bool
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uint, name string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		name:   name,
		send:   make(chan []byte, 256),
		rooms:  make(map[string]struct{}),
	}
}

// Run starts the read and write pumps.
func (c *Client) Run() {
	go c.WritePump()
	go c.ReadPump()
}

func (c *Client) logger() *logrus.Entry {
	return logrus.WithFields(logrus.Fields{"user_id": c.userID})
}

// ReadPump handles frames from the connection in order. Frames of one
// connection are never processed concurrently.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
		c.logger().Info("readPump exited, unregistered client")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger().WithError(err).Warn("WebSocket read error (unexpected close)")
			} else {
				c.logger().Debug("WebSocket connection closed normally or read error")
			}
			return
		}
		if messageType != websocket.TextMessage {
			c.logger().Debugf("Received non-text message type: %d", messageType)
			continue
		}
		c.hub.handleFrame(c, message)
	}
}

// WritePump drains the send channel onto the connection and keeps it alive
// with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.logger().Debug("writePump exited")
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger().WithError(err).Warn("Failed to write message to websocket")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger().WithError(err).Warn("Failed to send ping message")
				return
			}
		}
	}
}

// UserKey is the user id as it appears on the wire.
func (c *Client) UserKey() string { return formatUserID(c.userID) }

func (c *Client) CloseConn() { _ = c.conn.Close() }
