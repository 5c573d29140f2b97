package browser

import (
	"context"
	"net/http"

	"passgate/app/models"
)

// Service is the link to the page that hosts the injected wallet globals.
type Service interface {
	Call(ctx context.Context, global string) (*models.ConnectResponse, error)
	OpenURL(ctx context.Context, url string) error
	Attach(w http.ResponseWriter, r *http.Request) error
	Connected() bool
}
