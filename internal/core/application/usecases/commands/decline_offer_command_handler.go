package commands

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// DeclineOfferCommandHandler releases a declined leg back into matching.
// The decline consumes one of the delivery's assignment retries; while
// retries remain, the handler immediately tries the next nearest courier.
type DeclineOfferCommandHandler struct {
	uowFactory UoWFactory
	assigner   courierAssigner
	settings   AssignmentSettings
	logger     *slog.Logger
}

// NewDeclineOfferCommandHandler creates a handler for offer declines.
func NewDeclineOfferCommandHandler(
	uowFactory UoWFactory,
	matcher services.CourierMatcher,
	couriers ports.CourierDirectory,
	locations ports.BusinessLocationDirectory,
	notifier ports.Notifier,
	settings AssignmentSettings,
	logger *slog.Logger,
) DeclineOfferCommandHandler {
	return DeclineOfferCommandHandler{
		uowFactory: uowFactory,
		assigner:   newCourierAssigner(matcher, couriers, locations, notifier, settings, logger),
		settings:   settings,
		logger:     logger,
	}
}

// Handle processes the decline: resolve the offer, clear the cluster and
// delivery assignment, spend a retry and attempt an immediate reassignment.
// A failed reassignment leaves the leg Pending for the scheduler.
func (h DeclineOfferCommandHandler) Handle(ctx context.Context, cmd DeclineOfferCommand) error {
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

	if err = o.Decline(now); err != nil {
		return err
	}
	if err = uow.OfferRepository().Update(ctx, o); err != nil {
		return err
	}

	c, err := uow.ClusterRepository().Get(ctx, cmd.ClusterID())
	if err != nil {
		return err
	}
	if err = c.ClearAssignment(now); err != nil {
		return err
	}
	if err = uow.ClusterRepository().Update(ctx, c); err != nil {
		return err
	}

	d, err := uow.DeliveryRepository().Get(ctx, o.DeliveryID())
	if err != nil {
		return err
	}
	if d.Status() == delivery.Assigned {
		if err = d.Unassign(now); err != nil {
			return err
		}
	}

	if d.RetriesExhausted(h.settings.MaxRetries) {
		// Out of budget. The scheduler owns the escalation.
		if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
			return err
		}
		return uow.Commit(ctx)
	}

	if err = d.ConsumeRetry(h.settings.MaxRetries, now); err != nil {
		return err
	}
	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return err
	}

	if err = h.assigner.assign(ctx, uow, d, c, now); err != nil {
		h.logger.InfoContext(ctx, "no courier found after decline",
			"cluster_id", c.ID().String(), "error", err)
	}

	return uow.Commit(ctx)
}
