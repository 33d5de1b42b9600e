package commands

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/cluster"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// CreateDeliveryCommandHandler opens dispatch for an order: it persists the
// delivery with its legs and immediately tries to place each leg with the
// nearest courier. A leg that cannot be placed right away stays Pending and
// is retried by the reassignment scheduler, so creation never fails on
// courier supply.
type CreateDeliveryCommandHandler struct {
	uowFactory UoWFactory
	assigner   courierAssigner
	settings   AssignmentSettings
	logger     *slog.Logger
}

// NewCreateDeliveryCommandHandler creates a handler for delivery creation.
func NewCreateDeliveryCommandHandler(
	uowFactory UoWFactory,
	matcher services.CourierMatcher,
	couriers ports.CourierDirectory,
	locations ports.BusinessLocationDirectory,
	notifier ports.Notifier,
	settings AssignmentSettings,
	logger *slog.Logger,
) CreateDeliveryCommandHandler {
	return CreateDeliveryCommandHandler{
		uowFactory: uowFactory,
		assigner:   newCourierAssigner(matcher, couriers, locations, notifier, settings, logger),
		settings:   settings,
		logger:     logger,
	}
}

// Handle processes the delivery creation command. The delivery, its legs and
// any successful assignments are committed in one transaction.
func (h CreateDeliveryCommandHandler) Handle(ctx context.Context, cmd CreateDeliveryCommand) error {
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

	d, err := delivery.NewDelivery(cmd.DeliveryID(), cmd.OrderID(), cmd.CustomerID(),
		cmd.Dropoff(), nil, now)
	if err != nil {
		return err
	}

	if err = uow.DeliveryRepository().Add(ctx, d); err != nil {
		return err
	}

	specs := cmd.Clusters()
	if len(specs) == 0 {
		specs = []ClusterSpec{{}}
	}

	for i, spec := range specs {
		leg, err := h.buildLeg(ctx, d, spec, i+1, now)
		if err != nil {
			return err
		}

		if err = uow.ClusterRepository().Add(ctx, leg); err != nil {
			return err
		}

		// Supply failures leave the leg Pending for the scheduler.
		if err = h.assigner.assign(ctx, uow, d, leg, now); err != nil {
			h.logger.InfoContext(ctx, "no courier placed at creation",
				"cluster_id", leg.ID().String(), "error", err)
		}
	}

	return uow.Commit(ctx)
}

// buildLeg materializes one requested leg: the dropoff defaults to the
// delivery dropoff, the distance is measured from the resolved source when
// there is one, and an unset price is computed from the distance.
func (h CreateDeliveryCommandHandler) buildLeg(
	ctx context.Context,
	d *delivery.Delivery,
	spec ClusterSpec,
	sequence int,
	now time.Time,
) (*cluster.Cluster, error) {
	dropoff := d.Dropoff()
	if spec.Dropoff != nil {
		dropoff = *spec.Dropoff
	}

	source := spec.Source
	if source == nil && spec.SourceLocationID != nil {
		point, err := h.assigner.locations.GetPoint(ctx, *spec.SourceLocationID)
		if err != nil {
			return nil, err
		}
		source = &point
	}

	var distanceKm float64
	if source != nil {
		var err error
		distanceKm, err = source.DistanceKm(dropoff)
		if err != nil {
			return nil, err
		}
	}

	price := distanceKm * h.settings.PricePerKm
	if spec.Price != nil {
		price = *spec.Price
	}

	return cluster.NewCluster(kernel.NewUUID(), d.ID(), spec.SourceLocationID,
		source, dropoff, distanceKm, price, sequence, now)
}
