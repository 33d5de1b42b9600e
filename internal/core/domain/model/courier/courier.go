// Package courier contains the Courier read model. Couriers are owned by an
// external identity system; dispatch only needs their identity, last known
// position and availability, served from the courier directory.
package courier

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
)

// ErrCourierIsNotConstructed is returned when a Courier instance was not
// created through NewCourier.
var ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")

// Courier is a snapshot of one courier as known to the directory. Location
// is nil for couriers that have never reported a position; the matcher
// skips those.
type Courier struct {
	id        kernel.UUID
	userID    kernel.UUID
	location  *kernel.GeoPoint
	available bool

	isConstructed bool
}

// NewCourier creates a courier snapshot.
func NewCourier(id kernel.UUID, userID kernel.UUID, location *kernel.GeoPoint, available bool) (*Courier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := userID.Validate(); err != nil {
		return nil, err
	}
	if location != nil {
		if err := location.Validate(); err != nil {
			return nil, err
		}
		p := *location
		location = &p
	}

	return &Courier{
		id:            id,
		userID:        userID,
		location:      location,
		available:     available,
		isConstructed: true,
	}, nil
}

// Validate ensures the Courier was constructed via NewCourier.
func (c *Courier) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCourierIsNotConstructed
	}
	return nil
}

// ID returns the courier's unique identifier.
func (c *Courier) ID() kernel.UUID { return c.id }

// UserID returns the identity-system user behind this courier.
func (c *Courier) UserID() kernel.UUID { return c.userID }

// Location returns the last known position, or nil if never reported.
func (c *Courier) Location() *kernel.GeoPoint { return c.location }

// IsAvailable reports whether the courier accepts new offers.
func (c *Courier) IsAvailable() bool { return c.available }

// IsLocated reports whether the courier has a known position.
func (c *Courier) IsLocated() bool { return c.location != nil }

// IsEqual compares two couriers by identity.
func (c *Courier) IsEqual(other *Courier) bool {
	return other != nil && c.id.IsEqual(other.id)
}
