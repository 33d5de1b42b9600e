package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/offer"
)

// Notifier pushes dispatch events to the outside world: offer proposals to
// couriers and escalations to administrators. Implementations must be safe
// for concurrent use; delivery is best-effort and never blocks dispatch
// decisions.
type Notifier interface {
	// NotifyOfferCreated tells a courier a new offer is waiting.
	NotifyOfferCreated(ctx context.Context, o *offer.Offer) error

	// NotifyOfferWithdrawn tells a courier a pending offer no longer
	// stands, typically because a sibling was accepted first or the
	// delivery was cancelled.
	NotifyOfferWithdrawn(ctx context.Context, o *offer.Offer) error

	// NotifyAdminEscalation tells administrators a delivery ran out of
	// assignment retries and needs manual intervention.
	NotifyAdminEscalation(ctx context.Context, deliveryID kernel.UUID, reason string) error
}
