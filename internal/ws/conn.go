package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Errors returned from connection sends
var (
	ErrConnClosed     = errors.New("connection closed")
	ErrSendBufferFull = errors.New("send buffer full")
)

const (
	sendBufferSize = 64
	writeTimeout   = 5 * time.Second
	pongTimeout    = 60 * time.Second
	pingInterval   = 30 * time.Second
)

// Conn wraps a websocket connection with a buffered send channel drained by
// a single writer goroutine, so any goroutine may send without racing on
// the socket.
type Conn struct {
	id     string
	sock   *websocket.Conn
	send   chan []byte
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

func newConn(sock *websocket.Conn) *Conn {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Conn{
		id:     uuid.NewString(),
		sock:   sock,
		send:   make(chan []byte, sendBufferSize),
		ctx:    ctx,
		cancel: cancel,
	}
	go c.writeLoop()
	return c
}

// ID returns the opaque transport reference for this connection
func (c *Conn) ID() string {
	return c.id
}

func (c *Conn) writeLoop() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return
			}
			_ = c.sock.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.sock.WriteMessage(websocket.TextMessage, data); err != nil {
				c.Close()
				return
			}
		case <-ticker.C:
			_ = c.sock.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.sock.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}

// Send marshals v and queues it for the writer goroutine. A slow client
// whose buffer is full loses the message rather than blocking the caller.
func (c *Conn) Send(v any) error {
	select {
	case <-c.ctx.Done():
		return ErrConnClosed
	default:
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	select {
	case c.send <- data:
		return nil
	case <-c.ctx.Done():
		return ErrConnClosed
	default:
		return ErrSendBufferFull
	}
}

// Close shuts the connection down; safe to call more than once
func (c *Conn) Close() {
	c.once.Do(func() {
		c.cancel()
		_ = c.sock.Close()
	})
}
