package entitlement

import (
	"context"

	"passgate/app/models"
)

type Service interface {
	// Check queries the aggregator for address. On any failure the returned
	// entitlement is NotEntitled and the error says why.
	Check(ctx context.Context, address string) (*models.Entitlement, error)
}
