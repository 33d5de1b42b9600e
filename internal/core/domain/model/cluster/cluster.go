package cluster

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrClusterIsNotConstructed is returned when a Cluster instance was not
// created through NewCluster or RestoreCluster.
var ErrClusterIsNotConstructed = errors.New("Cluster must be created via NewCluster constructor")

// Tracking is the lightweight location-tracking sub-record attached to a
// cluster. It mirrors the cluster status and carries the courier's last
// reported position. Created lazily on the first tracking update.
type Tracking struct {
	Location    *kernel.GeoPoint
	Status      Status
	LastUpdated time.Time
}

// Cluster is one pickup-to-dropoff delivery leg within a delivery,
// optionally bound to a source business location. Legs created by splitting
// carry an explicit source point (the handover midpoint) instead.
//
// Invariants:
//   - at most one live courier assignment at a time (enforced by the
//     repository's conditional assignment update)
//   - sequence is monotonically increasing within a delivery
type Cluster struct {
	id               kernel.UUID
	deliveryID       kernel.UUID
	sourceLocationID *kernel.UUID
	source           *kernel.GeoPoint
	dropoff          kernel.GeoPoint
	distanceKm       float64
	price            float64
	status           Status
	courierID        *kernel.UUID
	assignedAt       *time.Time
	sequence         int
	tracking         *Tracking
	createdAt        time.Time
	updatedAt        time.Time

	isConstructed bool
}

// NewCluster creates a Pending leg for the given delivery. A leg has either
// a source business location (sourceLocationID), an explicit source point
// (handover legs from splitting), both, or neither (direct-to-customer legs
// dispatched from the dropoff).
func NewCluster(
	id kernel.UUID,
	deliveryID kernel.UUID,
	sourceLocationID *kernel.UUID,
	source *kernel.GeoPoint,
	dropoff kernel.GeoPoint,
	distanceKm float64,
	price float64,
	sequence int,
	now time.Time,
) (*Cluster, error) {
	c := &Cluster{
		status:        Pending,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		c.setID(id),
		c.setDeliveryID(deliveryID),
		c.setSourceLocationID(sourceLocationID),
		c.setSource(source),
		c.setDropoff(dropoff),
		c.setDistanceKm(distanceKm),
		c.setPrice(price),
		c.setSequence(sequence),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreCluster reconstructs a cluster from persistence.
func RestoreCluster(
	id kernel.UUID,
	deliveryID kernel.UUID,
	sourceLocationID *kernel.UUID,
	source *kernel.GeoPoint,
	dropoff kernel.GeoPoint,
	distanceKm float64,
	price float64,
	status Status,
	courierID *kernel.UUID,
	assignedAt *time.Time,
	sequence int,
	tracking *Tracking,
	createdAt time.Time,
	updatedAt time.Time,
) (*Cluster, error) {
	c := &Cluster{
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		isConstructed: true,
	}

	if err := errors.Join(
		c.setID(id),
		c.setDeliveryID(deliveryID),
		c.setSourceLocationID(sourceLocationID),
		c.setSource(source),
		c.setDropoff(dropoff),
		c.setDistanceKm(distanceKm),
		c.setPrice(price),
		c.setSequence(sequence),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	c.status = status
	if courierID != nil {
		if err := courierID.Validate(); err != nil {
			return nil, err
		}
		id := *courierID
		c.courierID = &id
	}
	if assignedAt != nil {
		at := *assignedAt
		c.assignedAt = &at
	}
	if tracking != nil {
		t := *tracking
		c.tracking = &t
	}

	return c, nil
}

// Validate ensures the Cluster was constructed via NewCluster or
// RestoreCluster.
func (c *Cluster) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrClusterIsNotConstructed
	}
	return nil
}

// ID returns the cluster's unique identifier.
func (c *Cluster) ID() kernel.UUID { return c.id }

// DeliveryID returns the owning delivery's identifier.
func (c *Cluster) DeliveryID() kernel.UUID { return c.deliveryID }

// SourceLocationID returns the bound business location's ID, or nil.
func (c *Cluster) SourceLocationID() *kernel.UUID { return c.sourceLocationID }

// Source returns the leg's explicit source coordinates, or nil.
func (c *Cluster) Source() *kernel.GeoPoint { return c.source }

// Dropoff returns the leg's dropoff coordinates.
func (c *Cluster) Dropoff() kernel.GeoPoint { return c.dropoff }

// DistanceKm returns the leg's distance estimate in kilometers.
func (c *Cluster) DistanceKm() float64 { return c.distanceKm }

// Price returns the leg's price.
func (c *Cluster) Price() float64 { return c.price }

// Status returns the current lifecycle state.
func (c *Cluster) Status() Status { return c.status }

// Courier returns the assigned courier's ID, or nil.
func (c *Cluster) Courier() *kernel.UUID { return c.courierID }

// AssignedAt returns the assignment timestamp, or nil.
func (c *Cluster) AssignedAt() *time.Time { return c.assignedAt }

// Sequence returns the leg's order within its delivery.
func (c *Cluster) Sequence() int { return c.sequence }

// Tracking returns the tracking sub-record, or nil when no update has been
// recorded yet.
func (c *Cluster) Tracking() *Tracking { return c.tracking }

// CreatedAt returns the creation timestamp.
func (c *Cluster) CreatedAt() time.Time { return c.createdAt }

// UpdatedAt returns the last mutation timestamp.
func (c *Cluster) UpdatedAt() time.Time { return c.updatedAt }

// Assign records the courier and assignment time and moves the leg to
// Assigned. Repositories additionally guard the write with a conditional
// update so two concurrent assignments cannot both win.
func (c *Cluster) Assign(courierID kernel.UUID, now time.Time) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	if c.status != Pending && c.status != Assigned {
		return errs.NewBusinessRuleError(
			fmt.Sprintf("%s is not a valid status to assign", c.status))
	}

	c.status = Assigned
	c.courierID = &courierID
	at := now
	c.assignedAt = &at
	c.updatedAt = now
	return nil
}

// ClearAssignment removes the courier after a declined or expired offer and
// returns the leg to Pending.
func (c *Cluster) ClearAssignment(now time.Time) error {
	if c.status.IsTerminal() {
		return errs.NewBusinessRuleError(
			fmt.Sprintf("%s is not a valid status to clear assignment", c.status))
	}

	c.status = Pending
	c.courierID = nil
	c.assignedAt = nil
	c.updatedAt = now
	return nil
}

// Complete moves the leg to the terminal Completed state.
func (c *Cluster) Complete(now time.Time) error {
	if c.status != Assigned {
		return errs.NewBusinessRuleError(
			fmt.Sprintf("%s is not a valid status to complete", c.status))
	}

	c.status = Completed
	c.updatedAt = now
	return nil
}

// Cancel moves the leg to the terminal Cancelled state.
func (c *Cluster) Cancel(now time.Time) error {
	if c.status.IsTerminal() {
		return errs.NewBusinessRuleError(
			fmt.Sprintf("cluster is already %s", c.status))
	}

	c.status = Cancelled
	c.courierID = nil
	c.assignedAt = nil
	c.updatedAt = now
	return nil
}

// UpdateTracking upserts the tracking sub-record, creating it on first use.
// A nil location keeps the previously reported position.
func (c *Cluster) UpdateTracking(location *kernel.GeoPoint, now time.Time) error {
	if location != nil {
		if err := location.Validate(); err != nil {
			return err
		}
	}

	if c.tracking == nil {
		c.tracking = &Tracking{}
	}
	if location != nil {
		loc := *location
		c.tracking.Location = &loc
	}
	c.tracking.Status = c.status
	c.tracking.LastUpdated = now
	c.updatedAt = now
	return nil
}

// IsAssignedTo reports whether the given courier currently holds the leg.
func (c *Cluster) IsAssignedTo(courierID kernel.UUID) bool {
	return c.courierID != nil && c.courierID.IsEqual(courierID)
}

// IsEqual compares two clusters by identity.
func (c *Cluster) IsEqual(other *Cluster) bool {
	return other != nil && c.id.IsEqual(other.id)
}

func (c *Cluster) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Cluster) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return fmt.Errorf("delivery ID: %w", err)
	}
	c.deliveryID = deliveryID
	return nil
}

func (c *Cluster) setSourceLocationID(id *kernel.UUID) error {
	if id == nil {
		return nil
	}
	if err := id.Validate(); err != nil {
		return fmt.Errorf("source location ID: %w", err)
	}
	v := *id
	c.sourceLocationID = &v
	return nil
}

func (c *Cluster) setSource(source *kernel.GeoPoint) error {
	if source == nil {
		return nil
	}
	if err := source.Validate(); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	p := *source
	c.source = &p
	return nil
}

func (c *Cluster) setDropoff(dropoff kernel.GeoPoint) error {
	if err := dropoff.Validate(); err != nil {
		return fmt.Errorf("dropoff: %w", err)
	}
	c.dropoff = dropoff
	return nil
}

func (c *Cluster) setDistanceKm(distanceKm float64) error {
	if distanceKm < 0 {
		return errs.NewValueIsInvalidErrorWithCause("distanceKm",
			fmt.Errorf("%f is negative", distanceKm))
	}
	c.distanceKm = distanceKm
	return nil
}

func (c *Cluster) setPrice(price float64) error {
	if price < 0 {
		return errs.NewValueIsInvalidErrorWithCause("price",
			fmt.Errorf("%f is negative", price))
	}
	c.price = price
	return nil
}

func (c *Cluster) setSequence(sequence int) error {
	if sequence < 0 {
		return errs.NewValueIsInvalidErrorWithCause("sequence",
			fmt.Errorf("%d is negative", sequence))
	}
	c.sequence = sequence
	return nil
}
