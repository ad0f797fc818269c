package websocket

import (
	"time"

	"github.com/evoapps/confeitaria-backend/pkg/logger"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10 // must stay below pongWait

	// board screens only send pings
	maxMessageSize = 4 * 1024

	maxMessagesPerSecond = 10
)

// Conn is the socket of a single board screen
type Conn struct {
	*websocket.Conn
}

func (c *Conn) write(messageType int, payload []byte) error {
	if err := c.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.WriteMessage(messageType, payload)
}

func (c *Client) fields() map[string]interface{} {
	return map[string]interface{}{
		"user_id":  c.UserID,
		"store_id": c.StoreID,
	}
}

// ReadPump consumes client frames until the socket fails, then leaves the hub
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	extend := func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	}
	_ = extend("")
	c.Conn.SetPongHandler(extend)

	for {
		kind, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("Board socket closed unexpectedly", c.fields())
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		c.Hub.HandleClientMessage(c, message)
	}
}

// WritePump delivers queued events one frame each and pings idle sockets
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, open := <-c.Send:
			if !open {
				_ = c.Conn.write(websocket.CloseMessage, nil)
				return
			}
			if err := c.Conn.write(websocket.TextMessage, message); err != nil {
				logger.Error("Failed to push board event", err, c.fields())
				return
			}
		case <-ticker.C:
			if err := c.Conn.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
