package commands

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/cluster"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/offer"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// ErrOfferNotAddressedToCourier is returned when a courier responds to an
// offer that was made to someone else.
var ErrOfferNotAddressedToCourier = errs.NewBusinessRuleError(
	"offer is not addressed to this courier",
)

// ErrOfferExpired is returned when a courier responds after the offer
// deadline. The scheduler will expire the offer and retry the leg.
var ErrOfferExpired = errs.NewBusinessRuleError("offer has expired")

// AcceptOfferCommandHandler confirms a courier on their offered leg. When
// the leg starts at a source the courier is too far from, the leg is split
// at the handover midpoint: the accepting courier keeps the midpoint-to-
// dropoff half and the source-to-midpoint half goes back into matching.
type AcceptOfferCommandHandler struct {
	uowFactory UoWFactory
	assigner   courierAssigner
	splitter   services.LegSplitter
	couriers   ports.CourierDirectory
	notifier   ports.Notifier
	settings   AssignmentSettings
	logger     *slog.Logger
}

// NewAcceptOfferCommandHandler creates a handler for offer acceptance.
func NewAcceptOfferCommandHandler(
	uowFactory UoWFactory,
	matcher services.CourierMatcher,
	splitter services.LegSplitter,
	couriers ports.CourierDirectory,
	locations ports.BusinessLocationDirectory,
	notifier ports.Notifier,
	settings AssignmentSettings,
	logger *slog.Logger,
) AcceptOfferCommandHandler {
	return AcceptOfferCommandHandler{
		uowFactory: uowFactory,
		assigner:   newCourierAssigner(matcher, couriers, locations, notifier, settings, logger),
		splitter:   splitter,
		couriers:   couriers,
		notifier:   notifier,
		settings:   settings,
		logger:     logger,
	}
}

// Handle processes the acceptance. The offer resolves exactly once, sibling
// offers on the same delivery are declined, and the whole outcome commits
// in one transaction.
func (h AcceptOfferCommandHandler) Handle(ctx context.Context, cmd AcceptOfferCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OfferRepository().GetActiveByCluster(ctx, cmd.ClusterID())
	if err != nil {
		return err
	}
	if !o.CourierID().IsEqual(cmd.CourierID()) {
		return ErrOfferNotAddressedToCourier
	}
	if o.IsExpired(now) {
		return ErrOfferExpired
	}

	d, err := uow.DeliveryRepository().Get(ctx, o.DeliveryID())
	if err != nil {
		return err
	}
	c, err := uow.ClusterRepository().Get(ctx, cmd.ClusterID())
	if err != nil {
		return err
	}

	acceptedLeg, err := h.placeCourier(ctx, uow, o, d, c, cmd.CourierID(), now)
	if err != nil {
		return err
	}

	if err = o.Accept(now); err != nil {
		return err
	}
	if err = uow.OfferRepository().Update(ctx, o); err != nil {
		return err
	}

	if err = h.declineSiblings(ctx, uow, d.ID(), o.ID(), now); err != nil {
		return err
	}

	if err = d.Assign(cmd.CourierID(), now); err != nil {
		return err
	}
	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "offer accepted",
		"offer_id", o.ID().String(),
		"cluster_id", acceptedLeg.ID().String(),
		"courier_id", cmd.CourierID().String())
	return uow.Commit(ctx)
}

// placeCourier puts the accepting courier on a leg: the original one, or the
// delivery half of a split when the courier is too far from the leg's
// source. Returns the leg the courier ends up holding, with the offer
// re-pointed at it.
func (h AcceptOfferCommandHandler) placeCourier(
	ctx context.Context,
	uow UoW,
	o *offer.Offer,
	d *delivery.Delivery,
	c *cluster.Cluster,
	courierID kernel.UUID,
	now time.Time,
) (*cluster.Cluster, error) {
	source, tooFar, err := h.needsSplit(ctx, d, c, courierID)
	if err != nil {
		return nil, err
	}

	if !tooFar {
		if c.IsAssignedTo(courierID) {
			return c, nil
		}
		if err := c.Assign(courierID, now); err != nil {
			return nil, err
		}
		return c, uow.ClusterRepository().Assign(ctx, c)
	}

	pickupLeg, deliveryLeg, err := h.splitter.Split(c, source, now)
	if err != nil {
		return nil, err
	}

	if err := uow.ClusterRepository().Add(ctx, pickupLeg); err != nil {
		return nil, err
	}
	if err := uow.ClusterRepository().Add(ctx, deliveryLeg); err != nil {
		return nil, err
	}

	// Matching the pickup leg is opportunistic; the scheduler retries it.
	if err := h.assigner.assign(ctx, uow, d, pickupLeg, now); err != nil {
		h.logger.InfoContext(ctx, "pickup leg left unassigned after split",
			"cluster_id", pickupLeg.ID().String(), "error", err)
	}

	if err := deliveryLeg.Assign(courierID, now); err != nil {
		return nil, err
	}
	if err := uow.ClusterRepository().Assign(ctx, deliveryLeg); err != nil {
		return nil, err
	}

	if err := o.RePoint(deliveryLeg.ID()); err != nil {
		return nil, err
	}

	if err := uow.ClusterRepository().Delete(ctx, c.ID()); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "leg split at handover midpoint",
		"original_cluster_id", c.ID().String(),
		"pickup_cluster_id", pickupLeg.ID().String(),
		"delivery_cluster_id", deliveryLeg.ID().String())
	return deliveryLeg, nil
}

// needsSplit reports whether the accepting courier is farther from the
// leg's source than the configured radius. Legs without a source and
// couriers without a position never split.
func (h AcceptOfferCommandHandler) needsSplit(
	ctx context.Context,
	d *delivery.Delivery,
	c *cluster.Cluster,
	courierID kernel.UUID,
) (kernel.GeoPoint, bool, error) {
	var source kernel.GeoPoint
	switch {
	case c.Source() != nil:
		source = *c.Source()
	case c.SourceLocationID() != nil:
		point, err := h.assigner.locations.GetPoint(ctx, *c.SourceLocationID())
		if err != nil {
			return kernel.GeoPoint{}, false, err
		}
		source = point
	default:
		return kernel.GeoPoint{}, false, nil
	}

	courier, err := h.couriers.Get(ctx, courierID)
	if err != nil {
		return kernel.GeoPoint{}, false, err
	}
	if !courier.IsLocated() {
		return source, false, nil
	}

	distance, err := courier.Location().DistanceKm(source)
	if err != nil {
		return kernel.GeoPoint{}, false, err
	}

	return source, h.splitter.ShouldSplit(distance, h.settings.MaxCourierDistanceKm), nil
}

// declineSiblings resolves every other active offer on the delivery as
// Declined so the first accepted response is the only one that counts.
func (h AcceptOfferCommandHandler) declineSiblings(
	ctx context.Context,
	uow UoW,
	deliveryID kernel.UUID,
	acceptedOfferID kernel.UUID,
	now time.Time,
) error {
	siblings, err := uow.OfferRepository().GetActiveByDelivery(ctx, deliveryID)
	if err != nil {
		return err
	}

	for _, sibling := range siblings {
		if sibling.ID().IsEqual(acceptedOfferID) {
			continue
		}
		if err := sibling.Decline(now); err != nil {
			return err
		}
		if err := uow.OfferRepository().Update(ctx, sibling); err != nil {
			return err
		}
		if err := h.notifier.NotifyOfferWithdrawn(ctx, sibling); err != nil {
			h.logger.WarnContext(ctx, "withdrawal notification failed",
				"offer_id", sibling.ID().String(), "error", err)
		}
	}

	return nil
}
