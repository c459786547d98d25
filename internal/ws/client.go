package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/triviaduel/internal/model"
)

const (
	// writeWait is how long a single frame write may take
	writeWait = 10 * time.Second
	// pongWait is how long to wait for a pong before declaring the peer dead
	pongWait = 60 * time.Second
	// pingPeriod must be shorter than pongWait
	pingPeriod = (pongWait * 9) / 10
	// maxMessageSize bounds inbound frames; duel frames are tiny
	maxMessageSize = 4096
	// sendBufferSize is the per-client outbound queue
	sendBufferSize = 32
)

// Client is one websocket connection known to the hub
type Client struct {
	id   model.ConnectionID
	conn *websocket.Conn

	send chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

func newClient(id model.ConnectionID, conn *websocket.Conn) *Client {
	return &Client{
		id:   id,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}
}

// ID returns the connection identifier assigned at upgrade time
func (c *Client) ID() model.ConnectionID {
	return c.id
}

// trySend queues a frame without blocking. Returns false when the
// client's buffer is full or the client is closed.
func (c *Client) trySend(frame []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- frame:
		return true
	case <-c.done:
		return false
	default:
		return false
	}
}

// close signals the pumps to stop. Safe to call more than once.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// writePump drains the send queue onto the wire and keeps the
// connection alive with pings. Runs in its own goroutine per client and
// owns all writes to the socket.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
			return
		}
	}
}

// readPump reads frames until the peer goes away, handing each one to
// handle. Runs on the handler's goroutine.
func (c *Client) readPump(handle func(Frame)) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var frame Frame
		if err := c.conn.ReadJSON(&frame); err != nil {
			return
		}
		handle(frame)
	}
}
