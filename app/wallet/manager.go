package wallet

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"passgate/app/models"
	"passgate/pkg/log"
)

var (
	ErrUnsupported    = errors.New("wallet is not supported")
	ErrConnectTimeout = errors.New("timed out")
)

// DefaultGlobals maps wallet names to the injected window globals. petra shares
// the aptos global, which is where the Petra extension injects itself.
var DefaultGlobals = map[models.WalletName]string{
	models.WalletAptos:   "aptos",
	models.WalletPetra:   "aptos",
	models.WalletPontem:  "pontem",
	models.WalletRise:    "rise",
	models.WalletFewcha:  "fewcha",
	models.WalletMartian: "martian",
}

type Manager struct {
	mu        sync.RWMutex
	providers map[models.WalletName]Provider
}

func NewManager() *Manager {
	return &Manager{providers: make(map[models.WalletName]Provider)}
}

// NewBrowserManager registers a BrowserProvider for every supported wallet,
// overriding the default globals with the ones in overrides.
func NewBrowserManager(caller Caller, overrides map[models.WalletName]string) *Manager {
	m := NewManager()
	for name, global := range DefaultGlobals {
		if g, ok := overrides[name]; ok && g != "" {
			global = g
		}
		m.Register(name, &BrowserProvider{Global: global, Caller: caller})
	}
	return m
}

func (m *Manager) Register(name models.WalletName, p Provider) {
	m.mu.Lock()
	m.providers[name] = p
	m.mu.Unlock()
}

func (m *Manager) Resolve(name string) (models.WalletName, Provider, error) {
	wn, ok := models.ParseWalletName(name)
	if !ok {
		return "", nil, ErrUnsupported
	}
	m.mu.RLock()
	p, ok := m.providers[wn]
	m.mu.RUnlock()
	if !ok {
		return "", nil, ErrUnsupported
	}
	return wn, p, nil
}

func (m *Manager) Connect(ctx context.Context, name models.WalletName, provider Provider) (string, error) {
	resp, err := provider.Connect(ctx)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", ErrConnectTimeout
		}
		return "", err
	}

	address := resp.WalletAddress()
	if address == "" {
		log.Warnw("provider resolved without an address", "wallet", name)
	}
	return address, nil
}

// BrowserProvider calls connect() on window.<Global> through the page link.
type BrowserProvider struct {
	Global string
	Caller Caller
}

func (p *BrowserProvider) Connect(ctx context.Context) (*models.ConnectResponse, error) {
	return p.Caller.Call(ctx, p.Global)
}
