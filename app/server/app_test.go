package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"passgate/app/bridge"
	"passgate/app/config"
	"passgate/app/entitlement"
	"passgate/app/models"
)

const (
	playerAddress = "0x7a11e7"
	testMintURL   = "https://launchpad.example/nft/pass"
)

func startApp(t *testing.T, aggregatorBody string) *httptest.Server {
	t.Helper()
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/tokens/"+playerAddress, r.URL.Path)
		_, _ = w.Write([]byte(aggregatorBody))
	}))
	t.Cleanup(api.Close)

	app := NewApp(&config.Config{
		Entitlement: entitlement.Config{
			BaseURL:      api.URL,
			CollectionID: entitlement.DefaultCollectionID,
			MintURL:      testMintURL,
			HTTPTimeout:  time.Second,
		},
		Bridge: bridge.Config{RetryInterval: 5 * time.Millisecond},
	})
	t.Cleanup(app.Close)

	srv := httptest.NewServer(app.Handler)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// servePage answers every connect with the player's address and forwards
// open_url commands to the returned channel.
func servePage(t *testing.T, srv *httptest.Server) <-chan string {
	page := dial(t, srv, "/api/v1/browser/ws")
	require.Eventually(t, func() bool { return health(t, srv).BrowserConnected }, time.Second, 5*time.Millisecond)

	opened := make(chan string, 4)
	go func() {
		for {
			var cmd models.BrowserCommand
			if err := page.ReadJSON(&cmd); err != nil {
				return
			}
			switch cmd.Type {
			case models.BrowserCommandConnect:
				assert.Equal(t, "aptos", cmd.Global)
				_ = page.WriteJSON(&models.BrowserReply{
					Type:     models.BrowserReplyConnectResult,
					ID:       cmd.ID,
					Response: &models.ConnectResponse{Address: playerAddress},
				})
			case models.BrowserCommandOpenURL:
				opened <- cmd.URL
			}
		}
	}()
	return opened
}

func health(t *testing.T, srv *httptest.Server) healthStatus {
	var out struct {
		Result healthStatus `json:"result"`
	}
	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Logf("health: %v", err)
		return out.Result
	}
	defer resp.Body.Close()

	_ = json.NewDecoder(resp.Body).Decode(&out)
	return out.Result
}

func readMessage(t *testing.T, game *websocket.Conn) models.RuntimeMessage {
	t.Helper()
	var msg models.RuntimeMessage
	_ = game.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, game.ReadJSON(&msg))
	return msg
}

func connectFromGame(t *testing.T, srv *httptest.Server) *websocket.Conn {
	game := dial(t, srv, "/api/v1/runtime/ws")
	require.NoError(t, game.WriteJSON(models.RuntimeFrame{Type: models.RuntimeFrameReady}))
	require.NoError(t, game.WriteJSON(models.RuntimeFrame{
		Type: models.RuntimeFrameMessage,
		RuntimeMessage: models.RuntimeMessage{
			Object: models.ObjectWalletBridge,
			Method: models.MethodConnectWallet,
			Arg:    "Petra",
		},
	}))
	return game
}

func TestPassHolderStartsGame(t *testing.T) {
	srv := startApp(t, `[{"token_id":"1","name":"Pass","image":"x"}]`)
	opened := servePage(t, srv)
	game := connectFromGame(t, srv)

	msg := readMessage(t, game)
	assert.Equal(t, models.RuntimeMessage{
		Object: models.ObjectStartGameManager,
		Method: models.MethodOnWalletConnected,
		Arg:    playerAddress,
	}, msg)

	msg = readMessage(t, game)
	assert.Equal(t, models.ObjectGameManager, msg.Object)
	assert.Equal(t, models.MethodOnStartGame, msg.Method)

	select {
	case url := <-opened:
		t.Fatalf("minting page opened for a pass holder: %s", url)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNoPassRedirectsToMint(t *testing.T) {
	srv := startApp(t, `[]`)
	opened := servePage(t, srv)
	game := connectFromGame(t, srv)

	msg := readMessage(t, game)
	assert.Equal(t, models.MethodOnWalletConnected, msg.Method)

	select {
	case url := <-opened:
		assert.Equal(t, testMintURL, url)
	case <-time.After(2 * time.Second):
		t.Fatal("minting page was not opened")
	}
}

func TestNoPageReportsConnectFailure(t *testing.T) {
	srv := startApp(t, `[]`)
	game := connectFromGame(t, srv)

	msg := readMessage(t, game)
	assert.Equal(t, models.MethodOnWalletConnectFailed, msg.Method)
	assert.Equal(t, "Petra connect error: browser page is not connected", msg.Arg)
}
