package delivery

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrDeliveryIsNotConstructed is returned when a Delivery instance was not
// created through NewDelivery or RestoreDelivery.
var ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery constructor")

// ErrNoRetriesLeft is returned by ConsumeRetry when the retry budget is
// exhausted.
var ErrNoRetriesLeft = errs.NewBusinessRuleError("delivery retry budget is exhausted")

// Delivery is the aggregate root for one order's dispatch. It owns the
// lifecycle state machine, the currently assigned courier and the
// reassignment retry budget. Clusters and offers reference the delivery by
// ID and are loaded through their repositories, never embedded here.
//
// Invariants:
//   - status transitions follow the Status state machine (forward-only,
//     Cancel from any non-terminal state)
//   - retryCount never exceeds the configured maximum; ConsumeRetry is the
//     only way to increment it
//   - a delivery in Assigned or later always has a courier recorded
type Delivery struct {
	id           kernel.UUID
	orderID      kernel.UUID
	customerID   kernel.UUID
	trackingCode string
	status       Status
	dropoff      kernel.GeoPoint
	pickup       *kernel.GeoPoint
	courierID    *kernel.UUID
	retryCount   int
	escalated    bool
	createdAt    time.Time
	updatedAt    time.Time

	isConstructed bool
}

// NewDelivery creates a Pending delivery for the given order. The tracking
// code is derived from the delivery ID. The pickup point is optional:
// deliveries whose clusters are bound to business locations have no
// delivery-level pickup.
func NewDelivery(
	id kernel.UUID,
	orderID kernel.UUID,
	customerID kernel.UUID,
	dropoff kernel.GeoPoint,
	pickup *kernel.GeoPoint,
	now time.Time,
) (*Delivery, error) {
	d := &Delivery{
		status:        Pending,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		d.setID(id),
		d.setOrderID(orderID),
		d.setCustomerID(customerID),
		d.setDropoff(dropoff),
		d.setPickup(pickup),
	); err != nil {
		return nil, err
	}

	d.trackingCode = trackingCodeFor(id)
	return d, nil
}

// RestoreDelivery reconstructs a delivery from persistence without applying
// creation-time defaults.
func RestoreDelivery(
	id kernel.UUID,
	orderID kernel.UUID,
	customerID kernel.UUID,
	trackingCode string,
	status Status,
	dropoff kernel.GeoPoint,
	pickup *kernel.GeoPoint,
	courierID *kernel.UUID,
	retryCount int,
	escalated bool,
	createdAt time.Time,
	updatedAt time.Time,
) (*Delivery, error) {
	d := &Delivery{
		trackingCode:  trackingCode,
		retryCount:    retryCount,
		escalated:     escalated,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		isConstructed: true,
	}

	if err := errors.Join(
		d.setID(id),
		d.setOrderID(orderID),
		d.setCustomerID(customerID),
		d.setDropoff(dropoff),
		d.setPickup(pickup),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	d.status = status
	if courierID != nil {
		if err := courierID.Validate(); err != nil {
			return nil, err
		}
		id := *courierID
		d.courierID = &id
	}

	return d, nil
}

// Validate ensures the Delivery was constructed via NewDelivery or
// RestoreDelivery.
func (d *Delivery) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDeliveryIsNotConstructed
	}
	return nil
}

// ID returns the delivery's unique identifier.
func (d *Delivery) ID() kernel.UUID { return d.id }

// OrderID returns the originating order's identifier.
func (d *Delivery) OrderID() kernel.UUID { return d.orderID }

// CustomerID returns the customer's identifier.
func (d *Delivery) CustomerID() kernel.UUID { return d.customerID }

// TrackingCode returns the human-facing tracking code.
func (d *Delivery) TrackingCode() string { return d.trackingCode }

// Status returns the current lifecycle state.
func (d *Delivery) Status() Status { return d.status }

// Dropoff returns the customer dropoff coordinates.
func (d *Delivery) Dropoff() kernel.GeoPoint { return d.dropoff }

// Pickup returns the optional delivery-level pickup coordinates.
func (d *Delivery) Pickup() *kernel.GeoPoint { return d.pickup }

// Courier returns the currently assigned courier's ID, or nil.
func (d *Delivery) Courier() *kernel.UUID { return d.courierID }

// RetryCount returns the number of assignment attempts consumed so far.
func (d *Delivery) RetryCount() int { return d.retryCount }

// Escalated reports whether the admin escalation for an exhausted retry
// budget has already been sent.
func (d *Delivery) Escalated() bool { return d.escalated }

// CreatedAt returns the creation timestamp.
func (d *Delivery) CreatedAt() time.Time { return d.createdAt }

// UpdatedAt returns the last mutation timestamp.
func (d *Delivery) UpdatedAt() time.Time { return d.updatedAt }

// Assign records the courier and moves the delivery to Assigned.
func (d *Delivery) Assign(courierID kernel.UUID, now time.Time) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	newStatus, err := d.status.Assign()
	if err != nil {
		return err
	}

	d.status = newStatus
	d.courierID = &courierID
	d.updatedAt = now
	return nil
}

// Unassign clears the courier and returns the delivery to Pending after a
// declined or expired offer.
func (d *Delivery) Unassign(now time.Time) error {
	newStatus, err := d.status.Unassign()
	if err != nil {
		return err
	}

	d.status = newStatus
	d.courierID = nil
	d.updatedAt = now
	return nil
}

// MarkPickedUp records that the courier collected the goods.
func (d *Delivery) MarkPickedUp(now time.Time) error {
	newStatus, err := d.status.PickUp()
	if err != nil {
		return err
	}

	d.status = newStatus
	d.updatedAt = now
	return nil
}

// Complete moves the delivery to the terminal Delivered state.
func (d *Delivery) Complete(now time.Time) error {
	newStatus, err := d.status.Deliver()
	if err != nil {
		return err
	}

	d.status = newStatus
	d.updatedAt = now
	return nil
}

// Cancel moves the delivery to the terminal Cancelled state.
func (d *Delivery) Cancel(now time.Time) error {
	newStatus, err := d.status.Cancel()
	if err != nil {
		return err
	}

	d.status = newStatus
	d.updatedAt = now
	return nil
}

// IsAssignedTo reports whether the given courier currently holds the
// delivery.
func (d *Delivery) IsAssignedTo(courierID kernel.UUID) bool {
	return d.courierID != nil && d.courierID.IsEqual(courierID)
}

// RetriesExhausted reports whether the retry budget is used up.
func (d *Delivery) RetriesExhausted(maxRetries int) bool {
	return d.retryCount >= maxRetries
}

// ConsumeRetry spends one assignment retry. It keeps retryCount bounded by
// maxRetries at all times; callers check RetriesExhausted first and treat
// ErrNoRetriesLeft as the signal to escalate.
func (d *Delivery) ConsumeRetry(maxRetries int, now time.Time) error {
	if d.retryCount >= maxRetries {
		return ErrNoRetriesLeft
	}

	d.retryCount++
	d.updatedAt = now
	return nil
}

// MarkEscalated latches the one-time admin escalation so the scheduler never
// notifies twice for the same delivery.
func (d *Delivery) MarkEscalated(now time.Time) {
	d.escalated = true
	d.updatedAt = now
}

// IsEqual compares two deliveries by identity.
func (d *Delivery) IsEqual(other *Delivery) bool {
	return other != nil && d.id.IsEqual(other.id)
}

func (d *Delivery) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Delivery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return fmt.Errorf("order ID: %w", err)
	}
	d.orderID = orderID
	return nil
}

func (d *Delivery) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return fmt.Errorf("customer ID: %w", err)
	}
	d.customerID = customerID
	return nil
}

func (d *Delivery) setDropoff(dropoff kernel.GeoPoint) error {
	if err := dropoff.Validate(); err != nil {
		return fmt.Errorf("dropoff: %w", err)
	}
	d.dropoff = dropoff
	return nil
}

func (d *Delivery) setPickup(pickup *kernel.GeoPoint) error {
	if pickup == nil {
		return nil
	}
	if err := pickup.Validate(); err != nil {
		return fmt.Errorf("pickup: %w", err)
	}
	p := *pickup
	d.pickup = &p
	return nil
}

func trackingCodeFor(id kernel.UUID) string {
	return "TRK-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:12])
}
