package wallet

import (
	"context"

	"passgate/app/models"
)

// Provider is one wallet product's connect capability.
type Provider interface {
	Connect(ctx context.Context) (*models.ConnectResponse, error)
}

// Caller invokes connect() on an injected global object in the browser page.
type Caller interface {
	Call(ctx context.Context, global string) (*models.ConnectResponse, error)
}

type Service interface {
	// Resolve returns the provider for a wallet name, or ErrUnsupported.
	Resolve(name string) (models.WalletName, Provider, error)
	// Connect resolves the provider, calls it and normalizes the returned address.
	Connect(ctx context.Context, name models.WalletName, provider Provider) (string, error)
}
