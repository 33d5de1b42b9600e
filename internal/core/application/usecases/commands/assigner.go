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
)

// courierAssigner is the shared assignment step used by delivery creation,
// offer decline and the reassignment scheduler: pick the nearest available
// courier for a leg, record the assignment and open an offer.
type courierAssigner struct {
	matcher   services.CourierMatcher
	couriers  ports.CourierDirectory
	locations ports.BusinessLocationDirectory
	notifier  ports.Notifier
	settings  AssignmentSettings
	logger    *slog.Logger
}

func newCourierAssigner(
	matcher services.CourierMatcher,
	couriers ports.CourierDirectory,
	locations ports.BusinessLocationDirectory,
	notifier ports.Notifier,
	settings AssignmentSettings,
	logger *slog.Logger,
) courierAssigner {
	return courierAssigner{
		matcher:   matcher,
		couriers:  couriers,
		locations: locations,
		notifier:  notifier,
		settings:  settings,
		logger:    logger,
	}
}

// targetFor resolves the point a courier must reach first to serve the leg:
// the leg's explicit source, else its business location, else the delivery
// dropoff.
func (a courierAssigner) targetFor(
	ctx context.Context,
	d *delivery.Delivery,
	c *cluster.Cluster,
) (kernel.GeoPoint, error) {
	if c.Source() != nil {
		return *c.Source(), nil
	}
	if c.SourceLocationID() != nil {
		return a.locations.GetPoint(ctx, *c.SourceLocationID())
	}
	return d.Dropoff(), nil
}

// assign matches a courier for the cluster, persists the assignment on both
// the cluster and its delivery and opens an offer, all within the caller's
// transaction. The offer notification is best-effort.
func (a courierAssigner) assign(
	ctx context.Context,
	uow UoW,
	d *delivery.Delivery,
	c *cluster.Cluster,
	now time.Time,
) error {
	target, err := a.targetFor(ctx, d, c)
	if err != nil {
		return err
	}

	available, err := a.couriers.GetAllAvailable(ctx)
	if err != nil {
		return err
	}

	best, distance, err := a.matcher.Match(target, available, a.settings.MaxCourierDistanceKm)
	if err != nil {
		return err
	}

	if err := c.Assign(best.ID(), now); err != nil {
		return err
	}
	if err := uow.ClusterRepository().Assign(ctx, c); err != nil {
		return err
	}

	if err := d.Assign(best.ID(), now); err != nil {
		return err
	}
	if err := uow.DeliveryRepository().Update(ctx, d); err != nil {
		return err
	}

	o, err := offer.NewOffer(kernel.NewUUID(), c.ID(), d.ID(), best.ID(),
		now, now.Add(a.settings.OfferExpiry))
	if err != nil {
		return err
	}
	if err := uow.OfferRepository().Add(ctx, o); err != nil {
		return err
	}

	if err := a.notifier.NotifyOfferCreated(ctx, o); err != nil {
		a.logger.WarnContext(ctx, "offer notification failed",
			"offer_id", o.ID().String(), "error", err)
	}

	a.logger.InfoContext(ctx, "courier assigned",
		"cluster_id", c.ID().String(),
		"courier_id", best.ID().String(),
		"distance_km", distance)
	return nil
}
