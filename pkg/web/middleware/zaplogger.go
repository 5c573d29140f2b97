package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"passgate/pkg/log"
)

// ZapLogger puts a request-scoped logger into the context and writes one
// access line per request once the handler returns.
func ZapLogger(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		logCtx := log.ToContext(r.Context(), log.Default())

		next.ServeHTTP(ww, r.WithContext(logCtx))

		log.ExtractLogger(logCtx).Infow(
			r.Method+" "+r.URL.Path,
			"status", ww.Status(),
			"ip", r.RemoteAddr,
			"request_id", middleware.GetReqID(r.Context()),
			"latency", time.Since(start),
		)
	}
	return http.HandlerFunc(fn)
}
