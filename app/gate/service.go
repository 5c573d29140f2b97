package gate

import "context"

// GameStarter invokes the game's start-game entry point.
type GameStarter interface {
	StartGame(ctx context.Context) error
}

// URLOpener opens a URL in the player's browser.
type URLOpener interface {
	OpenURL(ctx context.Context, url string) error
}

type Service interface {
	OnWalletConnected(ctx context.Context, address string) Outcome
	OnWalletConnectFailed(ctx context.Context, message string)
}
