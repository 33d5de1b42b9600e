package services

import (
	"time"

	"dispatch/internal/core/domain/model/cluster"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// LegSplitter is a domain service that splits one long delivery leg into a
// pickup leg and a delivery leg joined at the handover midpoint.
//
// The pickup leg keeps the original leg's source and sequence; the delivery
// leg runs from the midpoint to the original dropoff with the next sequence
// number. The original price is divided evenly between the two legs and the
// distances are recomputed per leg.
type LegSplitter struct{}

// NewLegSplitter creates a new LegSplitter instance.
func NewLegSplitter() LegSplitter {
	return LegSplitter{}
}

// ShouldSplit reports whether a leg of the given length has to be split. A
// thresholdKm of zero or less disables splitting.
func (s LegSplitter) ShouldSplit(distanceKm, thresholdKm float64) bool {
	return thresholdKm > 0 && distanceKm > thresholdKm
}

// Split produces the two replacement legs for original. source is the point
// the pickup leg departs from; callers resolve it from the leg's explicit
// source point or its business location before splitting.
func (s LegSplitter) Split(
	original *cluster.Cluster,
	source kernel.GeoPoint,
	now time.Time,
) (pickupLeg, deliveryLeg *cluster.Cluster, err error) {
	if err := original.Validate(); err != nil {
		return nil, nil, err
	}
	if err := source.Validate(); err != nil {
		return nil, nil, err
	}
	if original.Status().IsTerminal() {
		return nil, nil, errs.NewBusinessRuleError("cannot split a terminal leg")
	}

	midpoint, err := source.Midpoint(original.Dropoff())
	if err != nil {
		return nil, nil, err
	}

	firstDistance, err := source.DistanceKm(midpoint)
	if err != nil {
		return nil, nil, err
	}
	secondDistance, err := midpoint.DistanceKm(original.Dropoff())
	if err != nil {
		return nil, nil, err
	}

	halfPrice := original.Price() / 2

	pickupLeg, err = cluster.NewCluster(
		kernel.NewUUID(),
		original.DeliveryID(),
		original.SourceLocationID(),
		&source,
		midpoint,
		firstDistance,
		halfPrice,
		original.Sequence(),
		now,
	)
	if err != nil {
		return nil, nil, err
	}

	deliveryLeg, err = cluster.NewCluster(
		kernel.NewUUID(),
		original.DeliveryID(),
		nil,
		&midpoint,
		original.Dropoff(),
		secondDistance,
		halfPrice,
		original.Sequence()+1,
		now,
	)
	if err != nil {
		return nil, nil, err
	}

	return pickupLeg, deliveryLeg, nil
}
