package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// BulkAssignCourierCommandHandler is the operator override path: it puts one
// courier on a batch of legs without matching, withdrawing any offers that
// were pending on them. All or nothing.
type BulkAssignCourierCommandHandler struct {
	uowFactory UoWFactory
	couriers   ports.CourierDirectory
	notifier   ports.Notifier
	logger     *slog.Logger
}

// NewBulkAssignCourierCommandHandler creates a handler for bulk assignment.
func NewBulkAssignCourierCommandHandler(
	uowFactory UoWFactory,
	couriers ports.CourierDirectory,
	notifier ports.Notifier,
	logger *slog.Logger,
) BulkAssignCourierCommandHandler {
	return BulkAssignCourierCommandHandler{
		uowFactory: uowFactory,
		couriers:   couriers,
		notifier:   notifier,
		logger:     logger,
	}
}

// Handle assigns the courier to every requested cluster in one transaction.
// Unlike offer acceptance this is an unconditional write: an operator may
// take a leg away from another courier.
func (h BulkAssignCourierCommandHandler) Handle(ctx context.Context, cmd BulkAssignCourierCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if _, err := h.couriers.Get(ctx, cmd.CourierID()); err != nil {
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

	for _, clusterID := range cmd.ClusterIDs() {
		c, err := uow.ClusterRepository().Get(ctx, clusterID)
		if err != nil {
			return err
		}

		o, err := uow.OfferRepository().GetActiveByCluster(ctx, clusterID)
		switch {
		case err == nil:
			if err = o.Cancel(now); err != nil {
				return err
			}
			if err = uow.OfferRepository().Update(ctx, o); err != nil {
				return err
			}
			if err = h.notifier.NotifyOfferWithdrawn(ctx, o); err != nil {
				h.logger.WarnContext(ctx, "withdrawal notification failed",
					"offer_id", o.ID().String(), "error", err)
			}
		case errors.Is(err, errs.ErrObjectNotFound):
			// nothing pending on this leg
		default:
			return err
		}

		if err = c.Assign(cmd.CourierID(), now); err != nil {
			return err
		}
		if err = uow.ClusterRepository().Update(ctx, c); err != nil {
			return err
		}

		d, err := uow.DeliveryRepository().Get(ctx, c.DeliveryID())
		if err != nil {
			return err
		}
		if err = d.Assign(cmd.CourierID(), now); err != nil {
			return err
		}
		if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
			return err
		}
	}

	h.logger.InfoContext(ctx, "bulk assignment applied",
		"courier_id", cmd.CourierID().String(), "clusters", len(cmd.ClusterIDs()))
	return uow.Commit(ctx)
}
