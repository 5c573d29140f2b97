// Package wsconn wraps a gorilla websocket with the read/write pumps, ping
// keepalive and deadlines shared by the bridge's browser-facing links.
package wsconn

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

const (
	// time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// time allowed to read the next pong message from the peer
	pongWait = 30 * time.Second

	// send pings to peer with this period, must be less than pongWait
	pingPeriod = (pongWait * 8) / 10

	sendBuffer = 16
)

var ErrClosed = errors.New("connection closed")

var (
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
)

// Conn is a websocket with a single writer goroutine. Send is safe for concurrent use.
type Conn struct {
	conn *websocket.Conn
	send chan interface{}
	done chan struct{}
	once sync.Once
}

// Upgrade switches the request to a websocket. The caller must then call Serve.
func Upgrade(w http.ResponseWriter, r *http.Request) (*Conn, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upgrade a connection")
	}
	return &Conn{
		conn: conn,
		send: make(chan interface{}, sendBuffer),
		done: make(chan struct{}),
	}, nil
}

func (c *Conn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

// Done is closed once the connection is gone.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

func (c *Conn) Close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// Send queues v to be written as JSON.
func (c *Conn) Send(ctx context.Context, v interface{}) error {
	select {
	case c.send <- v:
		return nil
	case <-c.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Serve starts the writer and blocks reading frames into onFrame until the peer
// goes away. It returns the read error that ended the connection, nil on a normal close.
func (c *Conn) Serve(onFrame func(data []byte)) error {
	go c.write()
	defer c.Close()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return err
			}
			return nil
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		onFrame(data)
	}
}

func (c *Conn) write() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case v := <-c.send:
			data, err := json.Marshal(v)
			if err != nil {
				continue
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
