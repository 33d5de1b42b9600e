package commands

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/cluster"
	"dispatch/internal/pkg/errs"
)

// ErrDeliveryNotAssignedToCourier is returned when a courier reports
// progress on a delivery they do not hold.
var ErrDeliveryNotAssignedToCourier = errs.NewBusinessRuleError(
	"delivery is not assigned to this courier",
)

// CompleteDeliveryCommandHandler closes out a delivered order: the delivery
// goes to Delivered, assigned legs complete, leftover pending legs are
// cancelled and any remaining active offers settle as Accepted, since the
// work they proposed got done.
type CompleteDeliveryCommandHandler struct {
	uowFactory UoWFactory
	logger     *slog.Logger
}

// NewCompleteDeliveryCommandHandler creates a handler for delivery
// completion.
func NewCompleteDeliveryCommandHandler(uowFactory UoWFactory, logger *slog.Logger) CompleteDeliveryCommandHandler {
	return CompleteDeliveryCommandHandler{
		uowFactory: uowFactory,
		logger:     logger,
	}
}

// Handle processes the completion cascade.
func (h CompleteDeliveryCommandHandler) Handle(ctx context.Context, cmd CompleteDeliveryCommand) error {
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
	if !d.IsAssignedTo(cmd.CourierID()) {
		return ErrDeliveryNotAssignedToCourier
	}

	if err = d.Complete(now); err != nil {
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
		switch c.Status() {
		case cluster.Assigned:
			err = c.Complete(now)
		case cluster.Pending:
			err = c.Cancel(now)
		default:
			continue
		}
		if err != nil {
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
		if err = o.Accept(now); err != nil {
			return err
		}
		if err = uow.OfferRepository().Update(ctx, o); err != nil {
			return err
		}
	}

	h.logger.InfoContext(ctx, "delivery completed",
		"delivery_id", d.ID().String(), "courier_id", cmd.CourierID().String())
	return uow.Commit(ctx)
}
