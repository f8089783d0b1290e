package ekfweb

import (
	"github.com/gorilla/websocket"
)

// client represents a single connected websocket consumer.
type client struct {
	socket *websocket.Conn
	send   chan []byte
	room   *Room
}

func (c *client) read() {
	defer c.socket.Close()
	for {
		if _, _, err := c.socket.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) write() {
	defer c.socket.Close()
	for msg := range c.send {
		if err := c.socket.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}
