package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"passgate/app/config"
	"passgate/app/server"
	"passgate/pkg/log"
	"passgate/pkg/web"
)

func main() {
	cfg, err := config.Parse()
	if err != nil {
		panic(err)
	}

	zlog := log.ConfigureLogger(cfg.Logging)
	defer func() {
		_ = zlog.Sync() // flush the logger
	}()

	app := server.NewApp(cfg)
	defer app.Close()

	log.Infow("entitlement gate configured",
		"aggregator", cfg.Entitlement.BaseURL,
		"collection", cfg.Entitlement.CollectionID,
		"mint_url", cfg.Entitlement.MintURL,
	)

	srv := &http.Server{
		Addr:    cfg.RestAddr,
		Handler: app.Handler,
	}
	go web.Start(srv)
	defer web.Shutdown(srv, cfg.ShutdownTimeout)

	// wait for the program exit
	exit := make(chan os.Signal, 1)
	signal.Notify(exit, os.Interrupt, syscall.SIGTERM)
	<-exit
}
