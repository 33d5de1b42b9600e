package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
)

// BusinessLocationDirectory resolves business location IDs to coordinates.
// Locations are owned by the catalog system; dispatch only needs the point
// a leg departs from.
type BusinessLocationDirectory interface {
	// GetPoint retrieves the coordinates of a business location.
	GetPoint(ctx context.Context, id kernel.UUID) (kernel.GeoPoint, error)
}
