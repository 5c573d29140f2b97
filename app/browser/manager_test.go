package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"passgate/app/models"
)

// fakePage attaches a websocket client to m and answers connect commands with answer.
func fakePage(t *testing.T, m *Manager, answer func(cmd models.BrowserCommand) *models.BrowserReply) chan models.BrowserCommand {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := m.Attach(w, r); err != nil {
			t.Errorf("attach: %v", err)
		}
	}))
	t.Cleanup(ts.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.Eventually(t, m.Connected, time.Second, 5*time.Millisecond)

	seen := make(chan models.BrowserCommand, 8)
	go func() {
		for {
			var cmd models.BrowserCommand
			if err := conn.ReadJSON(&cmd); err != nil {
				return
			}
			seen <- cmd
			if cmd.Type != models.BrowserCommandConnect || answer == nil {
				continue
			}
			if reply := answer(cmd); reply != nil {
				_ = conn.WriteJSON(reply)
			}
		}
	}()
	return seen
}

func TestCallNotConnected(t *testing.T) {
	m := NewManager(0)
	_, err := m.Call(context.Background(), "aptos")
	assert.Equal(t, ErrNotConnected, err)
	assert.Equal(t, ErrNotConnected, m.OpenURL(context.Background(), "https://example.com"))
}

func TestCallResolves(t *testing.T) {
	m := NewManager(0)
	fakePage(t, m, func(cmd models.BrowserCommand) *models.BrowserReply {
		return &models.BrowserReply{
			Type:     models.BrowserReplyConnectResult,
			ID:       cmd.ID,
			Response: &models.ConnectResponse{Address: "0x" + cmd.Global},
		}
	})

	resp, err := m.Call(context.Background(), "martian")
	require.NoError(t, err)
	assert.Equal(t, "0xmartian", resp.WalletAddress())
	assert.Equal(t, 0, m.pending.ItemCount())
}

func TestCallRejected(t *testing.T) {
	m := NewManager(0)
	fakePage(t, m, func(cmd models.BrowserCommand) *models.BrowserReply {
		return &models.BrowserReply{Type: models.BrowserReplyConnectResult, ID: cmd.ID, Error: "User rejected the request"}
	})

	_, err := m.Call(context.Background(), "aptos")
	require.Error(t, err)
	assert.Equal(t, "User rejected the request", err.Error())
}

func TestCallExpires(t *testing.T) {
	m := NewManager(20 * time.Millisecond)
	fakePage(t, m, nil)

	_, err := m.Call(context.Background(), "rise")
	assert.Equal(t, ErrRequestExpired, err)
}

func TestCallHonoursContext(t *testing.T) {
	m := NewManager(0)
	fakePage(t, m, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := m.Call(ctx, "fewcha")
	assert.Equal(t, context.DeadlineExceeded, err)
}

func TestOpenURL(t *testing.T) {
	m := NewManager(0)
	seen := fakePage(t, m, nil)

	require.NoError(t, m.OpenURL(context.Background(), "https://launchpad.example/mint"))
	select {
	case cmd := <-seen:
		assert.Equal(t, models.BrowserCommandOpenURL, cmd.Type)
		assert.Equal(t, "https://launchpad.example/mint", cmd.URL)
	case <-time.After(time.Second):
		t.Fatal("open_url was not sent")
	}
}
