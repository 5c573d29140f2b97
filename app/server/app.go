package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"passgate/app/bridge"
	"passgate/app/browser"
	"passgate/app/config"
	"passgate/app/entitlement"
	"passgate/app/gate"
	"passgate/app/models"
	"passgate/app/runtime"
	"passgate/app/wallet"
	webware "passgate/pkg/web/middleware"
)

const maxRequestsAllowed = 1000

// App is the wired bridge: game link, page link, dispatcher, checker and gate.
type App struct {
	Runtime     *runtime.Manager
	Browser     *browser.Manager
	Dispatcher  *bridge.Dispatcher
	Entitlement *entitlement.Manager
	Gate        *gate.Manager
	Handler     http.Handler
}

func NewApp(cfg *config.Config) *App {
	rt := runtime.NewManager()
	page := browser.NewManager(cfg.Browser.RequestTTL)
	wallets := wallet.NewBrowserManager(page, cfg.Globals())
	dispatcher := bridge.NewDispatcher(wallets, rt, cfg.Bridge)
	checker := entitlement.NewManager(cfg.Entitlement)

	g := &gate.Manager{
		Entitlement: checker,
		Starter:     &gate.RuntimeStarter{Runtime: rt},
		Opener:      page,
		MintURL:     checker.Config.MintURL,
	}

	rt.Handle(models.ObjectWalletBridge, models.MethodConnectWallet, dispatcher.HandleConnectWallet)
	rt.Handle(models.ObjectStartGameManager, models.MethodOnWalletConnected, func(ctx context.Context, address string) {
		g.OnWalletConnected(ctx, address)
	})
	rt.Handle(models.ObjectStartGameManager, models.MethodOnWalletConnectFailed, g.OnWalletConnectFailed)

	router := chi.NewRouter()
	router.Use(
		chimiddleware.Throttle(maxRequestsAllowed),
		chimiddleware.RealIP,
		chimiddleware.RequestID,
		webware.ZapLogger,
		webware.Recoverer,
	)
	rest := &Rest{
		Router:      router,
		Bridge:      dispatcher,
		Runtime:     rt,
		Browser:     page,
		Entitlement: checker,
	}
	rest.Route()

	return &App{
		Runtime:     rt,
		Browser:     page,
		Dispatcher:  dispatcher,
		Entitlement: checker,
		Gate:        g,
		Handler:     router,
	}
}

// Close stops pending callback deliveries.
func (a *App) Close() {
	a.Dispatcher.Close()
}
