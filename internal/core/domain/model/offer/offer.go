package offer

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrOfferIsNotConstructed is returned when an Offer instance was not
// created through NewOffer or RestoreOffer.
var ErrOfferIsNotConstructed = errors.New("Offer must be created via NewOffer constructor")

// ErrOfferNotPending is returned when resolving an offer that has already
// been resolved. First resolution wins.
var ErrOfferNotPending = errs.NewBusinessRuleError("offer is already resolved")

// Offer is a time-boxed proposal of one cluster to one courier. An offer is
// resolved exactly once: Accept, Decline, Expire and Cancel all require the
// Pending state, so concurrent resolutions cannot both succeed.
type Offer struct {
	id          kernel.UUID
	clusterID   kernel.UUID
	deliveryID  kernel.UUID
	courierID   kernel.UUID
	status      Status
	active      bool
	createdAt   time.Time
	expiresAt   time.Time
	respondedAt *time.Time

	isConstructed bool
}

// NewOffer creates a Pending offer of the cluster to the courier. expiresAt
// must be strictly after now.
func NewOffer(
	id kernel.UUID,
	clusterID kernel.UUID,
	deliveryID kernel.UUID,
	courierID kernel.UUID,
	now time.Time,
	expiresAt time.Time,
) (*Offer, error) {
	o := &Offer{
		status:        Pending,
		active:        true,
		createdAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setClusterID(clusterID),
		o.setDeliveryID(deliveryID),
		o.setCourierID(courierID),
		o.setExpiresAt(expiresAt, now),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOffer reconstructs an offer from persistence.
func RestoreOffer(
	id kernel.UUID,
	clusterID kernel.UUID,
	deliveryID kernel.UUID,
	courierID kernel.UUID,
	status Status,
	active bool,
	createdAt time.Time,
	expiresAt time.Time,
	respondedAt *time.Time,
) (*Offer, error) {
	o := &Offer{
		active:        active,
		createdAt:     createdAt,
		expiresAt:     expiresAt,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setClusterID(clusterID),
		o.setDeliveryID(deliveryID),
		o.setCourierID(courierID),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	o.status = status
	if respondedAt != nil {
		at := *respondedAt
		o.respondedAt = &at
	}

	return o, nil
}

// Validate ensures the Offer was constructed via NewOffer or RestoreOffer.
func (o *Offer) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOfferIsNotConstructed
	}
	return nil
}

// ID returns the offer's unique identifier.
func (o *Offer) ID() kernel.UUID { return o.id }

// ClusterID returns the offered cluster's identifier.
func (o *Offer) ClusterID() kernel.UUID { return o.clusterID }

// DeliveryID returns the owning delivery's identifier.
func (o *Offer) DeliveryID() kernel.UUID { return o.deliveryID }

// CourierID returns the targeted courier's identifier.
func (o *Offer) CourierID() kernel.UUID { return o.courierID }

// Status returns the current lifecycle state.
func (o *Offer) Status() Status { return o.status }

// IsActive reports whether the offer is still awaiting resolution.
func (o *Offer) IsActive() bool { return o.active }

// CreatedAt returns the creation timestamp.
func (o *Offer) CreatedAt() time.Time { return o.createdAt }

// ExpiresAt returns the expiry deadline.
func (o *Offer) ExpiresAt() time.Time { return o.expiresAt }

// RespondedAt returns the resolution timestamp, or nil while Pending.
func (o *Offer) RespondedAt() *time.Time { return o.respondedAt }

// IsExpired reports whether the deadline has passed. A resolved offer is
// never considered expired.
func (o *Offer) IsExpired(now time.Time) bool {
	return o.status == Pending && !now.Before(o.expiresAt)
}

// RePoint retargets a Pending offer at another cluster. Used when a split
// replaces the offered cluster with the pickup leg.
func (o *Offer) RePoint(clusterID kernel.UUID) error {
	if o.status != Pending {
		return ErrOfferNotPending
	}
	return o.setClusterID(clusterID)
}

// Accept resolves the offer in the courier's favor.
func (o *Offer) Accept(now time.Time) error {
	return o.resolve(Accepted, now)
}

// Decline resolves the offer as refused.
func (o *Offer) Decline(now time.Time) error {
	return o.resolve(Declined, now)
}

// Expire resolves the offer as timed out.
func (o *Offer) Expire(now time.Time) error {
	return o.resolve(Expired, now)
}

// Cancel withdraws the offer.
func (o *Offer) Cancel(now time.Time) error {
	return o.resolve(Cancelled, now)
}

func (o *Offer) resolve(to Status, now time.Time) error {
	if o.status != Pending {
		return ErrOfferNotPending
	}

	o.status = to
	o.active = false
	at := now
	o.respondedAt = &at
	return nil
}

// IsEqual compares two offers by identity.
func (o *Offer) IsEqual(other *Offer) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Offer) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Offer) setClusterID(clusterID kernel.UUID) error {
	if err := clusterID.Validate(); err != nil {
		return fmt.Errorf("cluster ID: %w", err)
	}
	o.clusterID = clusterID
	return nil
}

func (o *Offer) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return fmt.Errorf("delivery ID: %w", err)
	}
	o.deliveryID = deliveryID
	return nil
}

func (o *Offer) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return fmt.Errorf("courier ID: %w", err)
	}
	o.courierID = courierID
	return nil
}

func (o *Offer) setExpiresAt(expiresAt, now time.Time) error {
	if !expiresAt.After(now) {
		return errs.NewValueIsInvalidErrorWithCause("expiresAt",
			fmt.Errorf("%s is not after %s", expiresAt, now))
	}
	o.expiresAt = expiresAt
	return nil
}
