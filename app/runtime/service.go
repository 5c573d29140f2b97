package runtime

import (
	"context"
	"net/http"

	"passgate/app/models"
)

// Sink delivers messages to the game runtime.
type Sink interface {
	// Ready reports whether the runtime has signalled it can receive messages.
	Ready() bool
	SendMessage(ctx context.Context, msg models.RuntimeMessage) error
}

// Handler is a Go-side entry point on a game object.
type Handler func(ctx context.Context, arg string)

type Service interface {
	Sink
	Handle(object, method string, h Handler)
	Attach(w http.ResponseWriter, r *http.Request) error
}
