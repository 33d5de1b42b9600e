package commands

import (
	"context"
	"time"
)

// UpdateTrackingCommandHandler upserts a leg's tracking sub-record.
type UpdateTrackingCommandHandler struct {
	uowFactory UoWFactory
}

// NewUpdateTrackingCommandHandler creates a handler for tracking updates.
func NewUpdateTrackingCommandHandler(uowFactory UoWFactory) UpdateTrackingCommandHandler {
	return UpdateTrackingCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle records the position report on the cluster's tracking sub-record,
// creating it on first use.
func (h UpdateTrackingCommandHandler) Handle(ctx context.Context, cmd UpdateTrackingCommand) error {
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

	c, err := uow.ClusterRepository().Get(ctx, cmd.ClusterID())
	if err != nil {
		return err
	}
	if err = c.UpdateTracking(cmd.Location(), now); err != nil {
		return err
	}
	if err = uow.ClusterRepository().Update(ctx, c); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
