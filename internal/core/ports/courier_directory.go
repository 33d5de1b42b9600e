package ports

import (
	"context"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// CourierDirectory provides read access to the courier fleet. Couriers are
// owned by an external identity system; the directory serves snapshots of
// their identity, position and availability.
type CourierDirectory interface {
	// Get retrieves one courier snapshot by ID.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetAllAvailable retrieves every courier currently accepting offers.
	GetAllAvailable(ctx context.Context) ([]*courier.Courier, error)
}
