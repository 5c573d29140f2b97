// Package browser links the bridge to the page that owns the injected wallet
// globals (window.aptos, window.martian, ...). The page runs connect() on the
// bridge's behalf and reports the result, and performs navigation.
package browser

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"

	"passgate/app/models"
	"passgate/pkg/log"
	"passgate/pkg/wsconn"
)

var (
	ErrNotConnected   = errors.New("browser page is not connected")
	ErrRequestExpired = errors.New("connect request expired")
)

type pendingCall struct {
	reply chan *models.BrowserReply
}

type Manager struct {
	mu      sync.RWMutex
	current *wsconn.Conn
	pending *cache.Cache
}

// NewManager creates a page link. Unanswered connect calls are abandoned after
// requestTTL; zero keeps them until the caller gives up.
func NewManager(requestTTL time.Duration) *Manager {
	var pending *cache.Cache
	if requestTTL > 0 {
		pending = cache.New(requestTTL, requestTTL)
	} else {
		pending = cache.New(cache.NoExpiration, 0)
	}
	pending.OnEvicted(func(_ string, v interface{}) {
		// wakes a caller whose entry expired; a no-op when the reply already landed
		select {
		case v.(*pendingCall).reply <- nil:
		default:
		}
	})
	return &Manager{pending: pending}
}

func (m *Manager) conn() *wsconn.Conn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

func (m *Manager) Connected() bool {
	return m.conn() != nil
}

// Call runs window[global].connect() in the page and waits for its outcome.
// A rejected connect comes back as an error carrying the provider's message.
func (m *Manager) Call(ctx context.Context, global string) (*models.ConnectResponse, error) {
	c := m.conn()
	if c == nil {
		return nil, ErrNotConnected
	}

	id := ksuid.New().String()
	pc := &pendingCall{reply: make(chan *models.BrowserReply, 1)}
	m.pending.SetDefault(id, pc)
	defer m.pending.Delete(id)

	cmd := &models.BrowserCommand{Type: models.BrowserCommandConnect, ID: id, Global: global}
	if err := c.Send(ctx, cmd); err != nil {
		if err == wsconn.ErrClosed {
			return nil, ErrNotConnected
		}
		return nil, err
	}
	log.Debugw("connect sent to page", "id", id, "global", global)

	select {
	case reply := <-pc.reply:
		if reply == nil {
			return nil, ErrRequestExpired
		}
		if reply.Error != "" {
			return nil, errors.New(reply.Error)
		}
		if reply.Response == nil {
			return &models.ConnectResponse{}, nil
		}
		return reply.Response, nil
	case <-c.Done():
		return nil, ErrNotConnected
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// OpenURL navigates the page to url.
func (m *Manager) OpenURL(ctx context.Context, url string) error {
	c := m.conn()
	if c == nil {
		return ErrNotConnected
	}
	err := c.Send(ctx, &models.BrowserCommand{Type: models.BrowserCommandOpenURL, URL: url})
	if err == wsconn.ErrClosed {
		return ErrNotConnected
	}
	return err
}

// Attach upgrades the request and makes it the current page connection,
// closing any previous one.
func (m *Manager) Attach(w http.ResponseWriter, r *http.Request) error {
	c, err := wsconn.Upgrade(w, r)
	if err != nil {
		return err
	}

	m.mu.Lock()
	prev := m.current
	m.current = c
	m.mu.Unlock()

	if prev != nil {
		log.Infow("replacing browser page connection", "remote", prev.RemoteAddr())
		prev.Close()
	}
	log.Infow("browser page attached", "remote", c.RemoteAddr())

	go m.serve(c)
	return nil
}

func (m *Manager) serve(c *wsconn.Conn) {
	err := c.Serve(m.onFrame)

	m.mu.Lock()
	if m.current == c {
		m.current = nil
	}
	m.mu.Unlock()

	if err != nil {
		log.Warnw("browser page connection lost", "remote", c.RemoteAddr(), "error", err.Error())
		return
	}
	log.Infow("browser page detached", "remote", c.RemoteAddr())
}

func (m *Manager) onFrame(data []byte) {
	reply := new(models.BrowserReply)
	if err := json.Unmarshal(data, reply); err != nil {
		log.Warnw("malformed browser frame", "error", err.Error())
		return
	}
	if reply.Type != models.BrowserReplyConnectResult {
		log.Warnw("unknown browser frame", "type", reply.Type)
		return
	}

	v, ok := m.pending.Get(reply.ID)
	if !ok {
		log.Warnw("dropping reply for unknown or expired request", "id", reply.ID)
		return
	}
	select {
	case v.(*pendingCall).reply <- reply:
	default:
	}
	m.pending.Delete(reply.ID)
}
