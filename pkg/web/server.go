package web

import (
	"context"
	"net/http"
	"time"

	"passgate/pkg/log"
)

// Start blocks serving until the server is closed.
func Start(server *http.Server) {
	log.Infow("starting an http server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil {
		// ErrServerClosed after Shutdown is the normal exit path
		log.Infow("shutting down the http server", "message", err.Error())
	}
}

func Shutdown(server *http.Server, shutdownTimeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Errorw("failed to shutdown the http server", "error", err.Error())
		return
	}
	log.Info("http server stopped")
}
