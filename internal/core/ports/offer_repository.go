package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/offer"
	"dispatch/internal/pkg/errs"
)

// ErrOfferAlreadyActive is returned by Add when the cluster already has an
// unresolved offer. One active offer per cluster at a time.
var ErrOfferAlreadyActive = errs.NewBusinessRuleError("cluster already has an active offer")

// OfferRepository defines the persistence contract for offers.
type OfferRepository interface {
	// Add persists a new offer to storage.
	Add(ctx context.Context, aggregate *offer.Offer) error

	// Update persists changes to an existing offer.
	Update(ctx context.Context, aggregate *offer.Offer) error

	// Get retrieves an offer by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*offer.Offer, error)

	// GetActiveByCluster retrieves the single active offer for a cluster,
	// if any.
	GetActiveByCluster(ctx context.Context, clusterID kernel.UUID) (*offer.Offer, error)

	// GetActiveByDelivery retrieves all active offers across a delivery's
	// clusters. Used to cancel siblings when one offer is accepted and to
	// withdraw everything on delivery cancellation.
	GetActiveByDelivery(ctx context.Context, deliveryID kernel.UUID) ([]*offer.Offer, error)

	// GetAllExpiredActive retrieves active offers whose deadline has
	// passed. Used by the reassignment scheduler.
	GetAllExpiredActive(ctx context.Context) ([]*offer.Offer, error)
}
