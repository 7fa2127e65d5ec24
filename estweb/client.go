package estweb

import "github.com/gorilla/websocket"

// client is one websocket participant in a room. Anything it sends is
// forwarded to everyone, so the in-process listener publishes by dialing
// in like any browser would.
type client struct {
	socket *websocket.Conn
	send   chan []byte
	room   *Room
}

func (c *client) read() {
	defer c.socket.Close()
	for {
		_, msg, err := c.socket.ReadMessage()
		if err != nil {
			return
		}
		c.room.forward <- msg
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
