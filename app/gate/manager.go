// Package gate admits a connected wallet into the game or sends it to the
// minting page. Anything short of a confirmed pass sends the player to mint.
package gate

import (
	"context"

	"passgate/app/entitlement"
	"passgate/app/models"
	"passgate/app/runtime"
	"passgate/pkg/log"
)

// Outcome is what the gate did for one connected wallet.
type Outcome int

const (
	OutcomeRedirected Outcome = iota
	OutcomeStarted
	OutcomeStartUnreachable
	OutcomeRedirectFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeStarted:
		return "started"
	case OutcomeStartUnreachable:
		return "start_unreachable"
	case OutcomeRedirectFailed:
		return "redirect_failed"
	default:
		return "redirected"
	}
}

type Manager struct {
	Entitlement entitlement.Service
	Starter     GameStarter
	Opener      URLOpener
	MintURL     string
}

func (m *Manager) OnWalletConnected(ctx context.Context, address string) Outcome {
	log.Infow("wallet connected", "address", address)

	out, err := m.Entitlement.Check(ctx, address)
	if err == nil && out.Decision == models.Entitled {
		log.Infow("pass validated, starting game", "address", address)
		if err := m.Starter.StartGame(ctx); err != nil {
			log.Errorw("game manager unreachable", "address", address, "error", err.Error())
			return OutcomeStartUnreachable
		}
		return OutcomeStarted
	}

	if err != nil {
		log.Warnw("entitlement unavailable, redirecting to minting", "address", address, "url", m.MintURL)
	} else {
		log.Infow("pass not found, redirecting to minting", "address", address, "url", m.MintURL)
	}
	if err := m.Opener.OpenURL(ctx, m.MintURL); err != nil {
		log.Errorw("failed to open the minting page", "url", m.MintURL, "error", err.Error())
		return OutcomeRedirectFailed
	}
	return OutcomeRedirected
}

func (m *Manager) OnWalletConnectFailed(ctx context.Context, message string) {
	log.Warnw("wallet connection failed", "message", message)
}

// RuntimeStarter starts the game by messaging GameManager.OnStartGame.
type RuntimeStarter struct {
	Runtime runtime.Sink
}

func (s *RuntimeStarter) StartGame(ctx context.Context) error {
	return s.Runtime.SendMessage(ctx, models.RuntimeMessage{
		Object: models.ObjectGameManager,
		Method: models.MethodOnStartGame,
	})
}
