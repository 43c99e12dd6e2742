// Package realtime owns live websocket connections: the per-connection
// read/write pumps and the registry mapping users to their open
// connections (multiple devices/tabs per user).
package realtime

import (
	"sync"
	"sync/atomic"
	"time"

	"vega_social_server/pkg/constants"
	"vega_social_server/pkg/errorx"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Conn is one live connection of a user. Outbound events go through a
// buffered channel drained by WritePump, so a push never blocks the caller.
type Conn struct {
	UserId      string
	ConnId      string
	ConnectedAt time.Time

	ws           *websocket.Conn // nil in tests
	send         chan []byte
	closeOnce    sync.Once
	lastActivity atomic.Int64 // unix nano
}

// NewConn wraps a websocket connection. ws may be nil when the connection
// is driven directly through Outbound (tests).
func NewConn(userId, connId string, ws *websocket.Conn) *Conn {
	c := &Conn{
		UserId:      userId,
		ConnId:      connId,
		ConnectedAt: time.Now(),
		ws:          ws,
		send:        make(chan []byte, constants.CONN_SEND_BUFFER),
	}
	c.Touch()
	return c
}

// Push queues an event for delivery. A full queue or closed connection
// reports a delivery error; the caller logs it and moves on.
func (c *Conn) Push(message []byte) (err error) {
	defer func() {
		// send on a closed queue when racing Close
		if r := recover(); r != nil {
			err = errorx.Newf(errorx.CodeDelivery, "connection %s closed", c.ConnId)
		}
	}()
	select {
	case c.send <- message:
		return nil
	default:
		return errorx.Newf(errorx.CodeDelivery, "connection %s send buffer full", c.ConnId)
	}
}

// Outbound exposes the delivery queue for the write pump and for tests.
func (c *Conn) Outbound() <-chan []byte {
	return c.send
}

// Touch records activity on the connection.
func (c *Conn) Touch() {
	c.lastActivity.Store(time.Now().UnixNano())
}

// LastActivity returns the time of the last read or push.
func (c *Conn) LastActivity() time.Time {
	return time.Unix(0, c.lastActivity.Load())
}

// Close shuts the delivery queue and the underlying socket. Safe to call
// more than once.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
		if c.ws != nil {
			if err := c.ws.Close(); err != nil {
				zap.L().Debug("websocket close", zap.Error(err))
			}
		}
	})
}

// WritePump drains the delivery queue into the websocket. Returns when the
// queue closes or a write fails.
func (c *Conn) WritePump() {
	for message := range c.send {
		if c.ws == nil {
			continue
		}
		if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
			zap.L().Warn("websocket write failed",
				zap.String("connId", c.ConnId), zap.Error(err))
			return
		}
	}
}
