package server

import (
	"github.com/gorilla/websocket"
)

// client pairs one websocket connection with its transport-assigned id and a
// buffered outbound queue. All writes to the socket go through writePump so
// the read loop and broadcast fan-out never contend on the connection.
type client struct {
	id   string
	conn *websocket.Conn
	send chan Envelope
	done chan struct{}
}

func newClient(id string, conn *websocket.Conn) *client {
	return &client{
		id:   id,
		conn: conn,
		send: make(chan Envelope, 16),
		done: make(chan struct{}),
	}
}

func (c *client) writePump() {
	for {
		select {
		case env := <-c.send:
			if err := c.conn.WriteJSON(env); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// enqueue never blocks; a full queue means the peer stopped draining and the
// frame is dropped rather than stalling the sender.
func (c *client) enqueue(env Envelope) bool {
	select {
	case c.send <- env:
		return true
	default:
		return false
	}
}
