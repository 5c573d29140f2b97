package models

// Well-known game objects and entry points.
const (
	ObjectWalletBridge     = "WalletBridge"
	ObjectStartGameManager = "StartGameManager"
	ObjectGameManager      = "GameManager"

	MethodConnectWallet         = "ConnectWallet"
	MethodOnWalletConnected     = "OnWalletConnected"
	MethodOnWalletConnectFailed = "OnWalletConnectFailed"
	MethodOnStartGame           = "OnStartGame"
)

// RuntimeMessage addresses a method on a named game object with one string argument.
type RuntimeMessage struct {
	Object string `json:"object"`
	Method string `json:"method"`
	Arg    string `json:"arg"`
}

const (
	RuntimeFrameReady   = "ready"
	RuntimeFrameMessage = "message"
)

// RuntimeFrame is what the game runtime writes to its websocket.
type RuntimeFrame struct {
	Type string `json:"type"`
	RuntimeMessage
}
