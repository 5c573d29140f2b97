package log

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type ctxMarkerLogger struct{}

var (
	ctxKeyLogger = &ctxMarkerLogger{}
)

type ctxLogger struct {
	mu     sync.Mutex
	logger *zap.SugaredLogger
	fields []interface{}
}

// AddFields attaches key-value pairs to the request-scoped logger, if any.
func AddFields(ctx context.Context, fields ...interface{}) {
	l, ok := ctx.Value(ctxKeyLogger).(*ctxLogger)
	if !ok || l == nil {
		return
	}
	l.mu.Lock()
	l.fields = append(l.fields, fields...)
	l.mu.Unlock()
}

// ExtractLogger returns the request-scoped logger with all fields added so far.
// Outside a request it falls back to the default logger.
func ExtractLogger(ctx context.Context) *zap.SugaredLogger {
	l, ok := ctx.Value(ctxKeyLogger).(*ctxLogger)
	if !ok || l == nil {
		return Default()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.logger.With(l.fields...)
}

// ToContext stores a logger copy in ctx for later extraction.
func ToContext(ctx context.Context, logger *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, ctxKeyLogger, &ctxLogger{logger: logger})
}
