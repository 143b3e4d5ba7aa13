package hub

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/okaytrev/softball-lineup/internal/constants"
)

const (
	pongWait       = constants.LivePingInterval * 2
	maxMessageSize = 512
)

// Client is one live box score viewer. Viewers only listen; anything they
// send is read and discarded.
type Client struct {
	ID   string
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
}

func NewClient(id string, conn *websocket.Conn, h *Hub) *Client {
	return &Client{
		ID:   id,
		conn: conn,
		send: make(chan []byte, constants.LiveSendBuffer),
		hub:  h,
	}
}

// ReadPump keeps the connection's read side serviced so pongs and close
// frames are seen. It unregisters the client when the peer goes away.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug().Err(err).Str("client_id", c.ID).Msg("live client closed unexpectedly")
			}
			return
		}
	}
}

// WritePump drains the send buffer onto the connection until the hub
// closes it.
func (c *Client) WritePump() {
	ticker := time.NewTicker(constants.LivePingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(constants.LiveWriteTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.hub.logger.Debug().Err(err).Str("client_id", c.ID).Msg("live client write failed")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(constants.LiveWriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// TrySend queues a message without blocking. False means the buffer is full.
func (c *Client) TrySend(message []byte) bool {
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}
