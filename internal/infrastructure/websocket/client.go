package websocket

import (
	"sync"

	"github.com/gorilla/websocket"

	"github.com/xujalz/Lost-And-Found/pkg/logger"
)

// Client is one persistent bidirectional channel. userID stays empty until
// the authenticate event succeeds; until then the connection may not invoke
// messaging operations.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu     sync.RWMutex
	userID string
	closed bool
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	c := &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
	if hub != nil {
		hub.trackClient(c)
	}
	return c
}

func (c *Client) UserID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID
}

func (c *Client) setUserID(id string) {
	c.mu.Lock()
	c.userID = id
	c.mu.Unlock()
}

// ReadPump reads events and dispatches them one at a time, so events on one
// connection are handled strictly in arrival order and the ack for an event
// is written only after its storage effects completed.
func (c *Client) ReadPump() {
	defer c.hub.dropClient(c)

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket: read error for user %q: %v", c.UserID(), err)
			}
			break
		}
		c.hub.handleEvent(c, raw)
	}
}

// WritePump drains the send channel onto the connection. It exits when the
// channel closes, which happens exactly once when the client is dropped.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			logger.Warn("websocket: write error for user %q: %v", c.UserID(), err)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// enqueue hands a frame to the write pump without blocking. Frames for a
// closed client are dropped silently; a full channel means the client
// stopped draining, and it gets dropped rather than stalling every other
// connection's fan-out.
func (c *Client) enqueue(message []byte) {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return
	}
	select {
	case c.send <- message:
		c.mu.RUnlock()
	default:
		c.mu.RUnlock()
		logger.Warn("websocket: send buffer full for user %q, dropping connection", c.UserID())
		c.hub.dropClient(c)
	}
}

func (c *Client) close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	close(c.send)
	if c.conn != nil {
		c.conn.Close()
	}
}
