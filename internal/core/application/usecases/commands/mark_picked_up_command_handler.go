package commands

import (
	"context"
	"time"
)

// MarkPickedUpCommandHandler records the pickup milestone on a delivery.
type MarkPickedUpCommandHandler struct {
	uowFactory UoWFactory
}

// NewMarkPickedUpCommandHandler creates a handler for pickup reports.
func NewMarkPickedUpCommandHandler(uowFactory UoWFactory) MarkPickedUpCommandHandler {
	return MarkPickedUpCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle moves the delivery from Assigned to PickedUp. Only the assigned
// courier may report the pickup.
func (h MarkPickedUpCommandHandler) Handle(ctx context.Context, cmd MarkPickedUpCommand) error {
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

	if err = d.MarkPickedUp(now); err != nil {
		return err
	}
	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
