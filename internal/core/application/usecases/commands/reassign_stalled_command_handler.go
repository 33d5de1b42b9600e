package commands

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/cluster"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/offer"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// ReassignStalledCommandHandler runs one reassignment sweep. It first
// expires overdue offers, releasing their legs back to Pending, then walks
// every unassigned pending leg: recently touched deliveries are left to
// settle, the rest get a fresh match, offer and retry tick. A final pass
// over pending deliveries escalates the ones out of retry budget to an
// administrator exactly once, even when no unassigned leg remains to point
// at them.
//
// Per-candidate failures are logged and skipped so one bad leg cannot stall
// the whole sweep.
type ReassignStalledCommandHandler struct {
	uowFactory UoWFactory
	assigner   courierAssigner
	notifier   ports.Notifier
	settings   AssignmentSettings
	logger     *slog.Logger
}

// NewReassignStalledCommandHandler creates a handler for reassignment
// sweeps.
func NewReassignStalledCommandHandler(
	uowFactory UoWFactory,
	matcher services.CourierMatcher,
	couriers ports.CourierDirectory,
	locations ports.BusinessLocationDirectory,
	notifier ports.Notifier,
	settings AssignmentSettings,
	logger *slog.Logger,
) ReassignStalledCommandHandler {
	return ReassignStalledCommandHandler{
		uowFactory: uowFactory,
		assigner:   newCourierAssigner(matcher, couriers, locations, notifier, settings, logger),
		notifier:   notifier,
		settings:   settings,
		logger:     logger,
	}
}

// Handle processes one sweep in a single transaction.
func (h ReassignStalledCommandHandler) Handle(ctx context.Context, cmd ReassignStalledCommand) error {
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

	if err := h.expireOverdueOffers(ctx, uow, now); err != nil {
		return err
	}

	if err := h.retryUnassigned(ctx, uow, now); err != nil {
		return err
	}

	if err := h.escalateExhausted(ctx, uow, now); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// expireOverdueOffers resolves every active offer past its deadline and
// releases the offered leg and its delivery back to Pending.
func (h ReassignStalledCommandHandler) expireOverdueOffers(ctx context.Context, uow UoW, now time.Time) error {
	overdue, err := uow.OfferRepository().GetAllExpiredActive(ctx)
	if err != nil {
		return err
	}

	for _, o := range overdue {
		if err := h.expireOne(ctx, uow, o, now); err != nil {
			h.logger.WarnContext(ctx, "offer expiry skipped",
				"offer_id", o.ID().String(), "error", err)
		}
	}
	return nil
}

func (h ReassignStalledCommandHandler) expireOne(ctx context.Context, uow UoW, o *offer.Offer, now time.Time) error {
	if err := o.Expire(now); err != nil {
		return err
	}
	if err := uow.OfferRepository().Update(ctx, o); err != nil {
		return err
	}

	c, err := uow.ClusterRepository().Get(ctx, o.ClusterID())
	if err != nil {
		return err
	}
	if c.IsAssignedTo(o.CourierID()) {
		if err := c.ClearAssignment(now); err != nil {
			return err
		}
		if err := uow.ClusterRepository().Update(ctx, c); err != nil {
			return err
		}
	}

	d, err := uow.DeliveryRepository().Get(ctx, o.DeliveryID())
	if err != nil {
		return err
	}
	if d.Status() == delivery.Assigned && d.IsAssignedTo(o.CourierID()) {
		if err := d.Unassign(now); err != nil {
			return err
		}
		if err := uow.DeliveryRepository().Update(ctx, d); err != nil {
			return err
		}
	}

	h.logger.InfoContext(ctx, "offer expired",
		"offer_id", o.ID().String(), "cluster_id", c.ID().String())
	return nil
}

// retryUnassigned walks pending legs without a courier and tries to place
// each one, spending a retry per attempt.
func (h ReassignStalledCommandHandler) retryUnassigned(ctx context.Context, uow UoW, now time.Time) error {
	candidates, err := uow.ClusterRepository().GetAllUnassigned(ctx)
	if err != nil {
		return err
	}

	for _, c := range candidates {
		if err := h.retryOne(ctx, uow, c, now); err != nil {
			h.logger.WarnContext(ctx, "reassignment skipped",
				"cluster_id", c.ID().String(), "error", err)
		}
	}
	return nil
}

func (h ReassignStalledCommandHandler) retryOne(ctx context.Context, uow UoW, c *cluster.Cluster, now time.Time) error {
	d, err := uow.DeliveryRepository().Get(ctx, c.DeliveryID())
	if err != nil {
		return err
	}
	if d.Status().IsTerminal() {
		return nil
	}

	// Out of budget: the escalation pass owns this delivery now.
	if d.RetriesExhausted(h.settings.MaxRetries) {
		return nil
	}

	// Let a freshly touched delivery settle before retrying.
	if now.Sub(d.UpdatedAt()) < h.settings.RetryDelay {
		return nil
	}

	if err := h.assigner.assign(ctx, uow, d, c, now); err != nil {
		// Courier supply failure: not the delivery's fault, keep the
		// retry budget and tell an operator.
		h.logger.InfoContext(ctx, "no courier available for stalled leg",
			"cluster_id", c.ID().String(), "error", err)
		if nerr := h.notifier.NotifyAdminEscalation(ctx, d.ID(), err.Error()); nerr != nil {
			h.logger.WarnContext(ctx, "escalation notification failed",
				"delivery_id", d.ID().String(), "error", nerr)
		}
		return nil
	}

	if err := d.ConsumeRetry(h.settings.MaxRetries, now); err != nil {
		return err
	}
	return uow.DeliveryRepository().Update(ctx, d)
}

// escalateExhausted walks deliveries still Pending and raises the ones that
// burned their whole retry budget.
func (h ReassignStalledCommandHandler) escalateExhausted(ctx context.Context, uow UoW, now time.Time) error {
	pending, err := uow.DeliveryRepository().GetAllInPendingStatus(ctx)
	if err != nil {
		return err
	}

	for _, d := range pending {
		if !d.RetriesExhausted(h.settings.MaxRetries) {
			continue
		}
		if err := h.escalateOnce(ctx, uow, d, now); err != nil {
			h.logger.WarnContext(ctx, "escalation skipped",
				"delivery_id", d.ID().String(), "error", err)
		}
	}
	return nil
}

// escalateOnce notifies administrators about an exhausted delivery, latching
// the escalation so later sweeps stay quiet about it.
func (h ReassignStalledCommandHandler) escalateOnce(ctx context.Context, uow UoW, d *delivery.Delivery, now time.Time) error {
	if d.Escalated() {
		return nil
	}

	if err := h.notifier.NotifyAdminEscalation(ctx, d.ID(),
		"assignment retry budget exhausted"); err != nil {
		return err
	}

	d.MarkEscalated(now)
	if err := uow.DeliveryRepository().Update(ctx, d); err != nil {
		return err
	}

	h.logger.WarnContext(ctx, "delivery escalated to admin",
		"delivery_id", d.ID().String(), "retries", d.RetryCount())
	return nil
}
