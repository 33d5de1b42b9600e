package commands

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/ports"
)

// CancelDeliveryCommandHandler abandons a delivery: the delivery and its
// non-terminal legs go to Cancelled and every active offer is expired, in
// one transaction.
type CancelDeliveryCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
	logger     *slog.Logger
}

// NewCancelDeliveryCommandHandler creates a handler for delivery
// cancellation.
func NewCancelDeliveryCommandHandler(
	uowFactory UoWFactory,
	notifier ports.Notifier,
	logger *slog.Logger,
) CancelDeliveryCommandHandler {
	return CancelDeliveryCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		logger:     logger,
	}
}

// Handle processes the cancellation cascade.
func (h CancelDeliveryCommandHandler) Handle(ctx context.Context, cmd CancelDeliveryCommand) error {
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

	d, err := uow.DeliveryRepository().Get(ctx, cmd.DeliveryID())
	if err != nil {
		return err
	}
	if err = d.Cancel(now); err != nil {
		return err
	}
	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return err
	}

	clusters, err := uow.ClusterRepository().GetByDelivery(ctx, d.ID())
	if err != nil {
		return err
	}
	for _, c := range clusters {
		if c.Status().IsTerminal() {
			continue
		}
		if err = c.Cancel(now); err != nil {
			return err
		}
		if err = uow.ClusterRepository().Update(ctx, c); err != nil {
			return err
		}
	}

	offers, err := uow.OfferRepository().GetActiveByDelivery(ctx, d.ID())
	if err != nil {
		return err
	}
	for _, o := range offers {
		if err = o.Expire(now); err != nil {
			return err
		}
		if err = uow.OfferRepository().Update(ctx, o); err != nil {
			return err
		}
		if err = h.notifier.NotifyOfferWithdrawn(ctx, o); err != nil {
			h.logger.WarnContext(ctx, "withdrawal notification failed",
				"offer_id", o.ID().String(), "error", err)
		}
	}

	h.logger.InfoContext(ctx, "delivery cancelled", "delivery_id", d.ID().String())
	return uow.Commit(ctx)
}
