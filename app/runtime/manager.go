// Package runtime links the bridge to the game instance running in the browser.
// The game opens a websocket, announces readiness, and from then on exchanges
// object/method/argument messages with the bridge.
package runtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"passgate/app/models"
	"passgate/pkg/log"
	"passgate/pkg/wsconn"
)

var ErrNotConnected = errors.New("game runtime is not connected")

type session struct {
	*wsconn.Conn
	ready atomic.Bool
}

type Manager struct {
	mu       sync.RWMutex
	current  *session
	handlers map[string]Handler
}

func NewManager() *Manager {
	return &Manager{handlers: make(map[string]Handler)}
}

func handlerKey(object, method string) string {
	return object + "." + method
}

// Handle registers a Go-side entry point. Messages addressed to it, from the game
// or from SendMessage, run h in its own goroutine.
func (m *Manager) Handle(object, method string, h Handler) {
	m.mu.Lock()
	m.handlers[handlerKey(object, method)] = h
	m.mu.Unlock()
}

func (m *Manager) handler(object, method string) Handler {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.handlers[handlerKey(object, method)]
}

func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil && m.current.ready.Load()
}

// SendMessage forwards msg to the game and runs the local entry point for it, if
// any. It fails with ErrNotConnected only when neither could take the message.
func (m *Manager) SendMessage(ctx context.Context, msg models.RuntimeMessage) error {
	m.mu.RLock()
	s := m.current
	m.mu.RUnlock()

	err := ErrNotConnected
	if s != nil {
		if err = s.Send(ctx, msg); err == wsconn.ErrClosed {
			err = ErrNotConnected
		}
	}

	if local := m.handler(msg.Object, msg.Method); local != nil {
		go local(context.Background(), msg.Arg)
		if err == ErrNotConnected {
			return nil
		}
	}
	return errors.Wrapf(err, "%s.%s", msg.Object, msg.Method)
}

// Attach upgrades the request and makes it the current game connection,
// closing any previous one.
func (m *Manager) Attach(w http.ResponseWriter, r *http.Request) error {
	conn, err := wsconn.Upgrade(w, r)
	if err != nil {
		return err
	}
	s := &session{Conn: conn}

	m.mu.Lock()
	prev := m.current
	m.current = s
	m.mu.Unlock()

	if prev != nil {
		log.Infow("replacing game runtime connection", "remote", prev.RemoteAddr())
		prev.Close()
	}
	log.Infow("game runtime attached", "remote", s.RemoteAddr())

	go m.serve(s)
	return nil
}

func (m *Manager) serve(s *session) {
	err := s.Serve(func(data []byte) { m.onFrame(s, data) })

	m.mu.Lock()
	if m.current == s {
		m.current = nil
	}
	m.mu.Unlock()

	if err != nil {
		log.Warnw("game runtime connection lost", "remote", s.RemoteAddr(), "error", err.Error())
		return
	}
	log.Infow("game runtime detached", "remote", s.RemoteAddr())
}

func (m *Manager) onFrame(s *session, data []byte) {
	var frame models.RuntimeFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		log.Warnw("malformed runtime frame", "error", err.Error())
		return
	}

	switch frame.Type {
	case models.RuntimeFrameReady:
		if !s.ready.Swap(true) {
			log.Info("game runtime is ready")
		}
	case models.RuntimeFrameMessage:
		h := m.handler(frame.Object, frame.Method)
		if h == nil {
			log.Warnw("no entry point for runtime message", "object", frame.Object, "method", frame.Method)
			return
		}
		go h(context.Background(), frame.Arg)
	default:
		log.Warnw("unknown runtime frame", "type", frame.Type)
	}
}
