package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"passgate/app/bridge"
	"passgate/app/browser"
	"passgate/app/entitlement"
	"passgate/app/models"
	"passgate/app/runtime"
	"passgate/pkg/aptos"
	"passgate/pkg/log"
	"passgate/pkg/response"
	"passgate/pkg/web"
)

const (
	apiPrefix = "/api/v1"
)

// Rest is a gateway for incoming HTTP and websocket requests
type Rest struct {
	Router      chi.Router
	Bridge      bridge.Service
	Runtime     runtime.Service
	Browser     browser.Service
	Entitlement entitlement.Service
}

func (s *Rest) Route() {
	s.Router.Get("/health", s.health)

	s.Router.Route(apiPrefix, func(r chi.Router) {
		r.Get("/runtime/ws", s.attachRuntime)
		r.Get("/browser/ws", s.attachBrowser)

		r.Post("/wallet/connect", s.connectWallet)
		r.Get("/entitlement/{address}", s.getEntitlement)
	})
}

type healthStatus struct {
	RuntimeReady     bool `json:"runtime_ready"`
	BrowserConnected bool `json:"browser_connected"`
}

func (s *Rest) health(w http.ResponseWriter, r *http.Request) {
	web.RenderResult(w, r, &healthStatus{
		RuntimeReady:     s.Runtime.Ready(),
		BrowserConnected: s.Browser.Connected(),
	})
}

func (s *Rest) attachRuntime(w http.ResponseWriter, r *http.Request) {
	// on success the connection is hijacked, nothing may be written
	if err := s.Runtime.Attach(w, r); err != nil {
		log.ExtractLogger(r.Context()).Warnw("runtime websocket rejected", "error", err.Error())
	}
}

func (s *Rest) attachBrowser(w http.ResponseWriter, r *http.Request) {
	if err := s.Browser.Attach(w, r); err != nil {
		log.ExtractLogger(r.Context()).Warnw("browser websocket rejected", "error", err.Error())
	}
}

func (s *Rest) connectWallet(w http.ResponseWriter, r *http.Request) {
	in := new(models.ConnectWallet)
	if err := render.DecodeJSON(r.Body, in); err != nil {
		web.RenderError(w, r, response.NewError(response.CodeBadRequest, "malformed request body").SetInternal(err))
		return
	}
	log.AddFields(r.Context(), "wallet", in.Wallet)

	res := s.Bridge.ConnectWallet(r.Context(), in.Wallet)
	web.RenderResult(w, r, &models.ConnectStatus{Status: res.String()})
}

func (s *Rest) getEntitlement(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	if !aptos.IsValidAddress(address) {
		web.RenderError(w, r, response.NewError(response.CodeUnprocessable, "invalid wallet address"))
		return
	}
	log.AddFields(r.Context(), "address", address)

	out, err := s.Entitlement.Check(r.Context(), address)
	if err != nil {
		web.RenderError(w, r, response.NewError(response.CodeBadGateway, "aggregator unavailable").SetInternal(err))
		return
	}

	web.RenderResult(w, r, out)
}
