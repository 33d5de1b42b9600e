// Package notify implements the outbound notification port. The log
// notifier writes structured events; a push-gateway implementation can
// replace it behind the same interface.
package notify

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/offer"
	"dispatch/internal/pkg/errs"
)

// LogNotifier emits dispatch events as structured log records.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier writing to the given logger.
func NewLogNotifier(logger *slog.Logger) (*LogNotifier, error) {
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	return &LogNotifier{logger: logger}, nil
}

// NotifyOfferCreated tells a courier a new offer is waiting.
func (n *LogNotifier) NotifyOfferCreated(ctx context.Context, o *offer.Offer) error {
	if err := o.Validate(); err != nil {
		return err
	}

	n.logger.InfoContext(ctx, "offer created",
		"offer_id", o.ID().String(),
		"cluster_id", o.ClusterID().String(),
		"courier_id", o.CourierID().String(),
		"expires_at", o.ExpiresAt())
	return nil
}

// NotifyOfferWithdrawn tells a courier a pending offer no longer stands.
func (n *LogNotifier) NotifyOfferWithdrawn(ctx context.Context, o *offer.Offer) error {
	if err := o.Validate(); err != nil {
		return err
	}

	n.logger.InfoContext(ctx, "offer withdrawn",
		"offer_id", o.ID().String(),
		"cluster_id", o.ClusterID().String(),
		"courier_id", o.CourierID().String())
	return nil
}

// NotifyAdminEscalation tells administrators a delivery needs manual
// intervention.
func (n *LogNotifier) NotifyAdminEscalation(ctx context.Context, deliveryID kernel.UUID, reason string) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}

	n.logger.WarnContext(ctx, "delivery escalated",
		"delivery_id", deliveryID.String(),
		"reason", reason)
	return nil
}
