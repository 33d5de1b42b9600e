// Package deliveryrepo provides data transfer objects and mapping functions
// for delivery persistence. It implements the repository pattern for the
// delivery aggregate, converting between the domain model and its relational
// representation.
package deliveryrepo

import (
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DeliveryDTO represents the database structure for persisting delivery
// aggregates. Indexed for lookup by order, status and courier.
type DeliveryDTO struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID   `gorm:"type:uuid;index"`
	CustomerID   uuid.UUID   `gorm:"type:uuid;index"`
	TrackingCode string      `gorm:"index"`
	Status       int         `gorm:"index"`
	Dropoff      GeoPointDTO `gorm:"embedded;embeddedPrefix:dropoff_"`
	PickupLat    *float64
	PickupLon    *float64
	CourierID    *uuid.UUID `gorm:"type:uuid;index"`
	RetryCount   int
	Escalated    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the database table name for delivery entities.
func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// GeoPointDTO represents embedded coordinates within a table row.
type GeoPointDTO struct {
	Lat float64
	Lon float64
}

// fromDomain converts a delivery aggregate to its database representation.
func fromDomain(d *delivery.Delivery) DeliveryDTO {
	var courierID *uuid.UUID
	if id := d.Courier(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	var pickupLat, pickupLon *float64
	if p := d.Pickup(); p != nil {
		lat, lon := p.Lat(), p.Lon()
		pickupLat, pickupLon = &lat, &lon
	}

	return DeliveryDTO{
		ID:           d.ID().Bytes(),
		OrderID:      d.OrderID().Bytes(),
		CustomerID:   d.CustomerID().Bytes(),
		TrackingCode: d.TrackingCode(),
		Status:       int(d.Status()),
		Dropoff: GeoPointDTO{
			Lat: d.Dropoff().Lat(),
			Lon: d.Dropoff().Lon(),
		},
		PickupLat:  pickupLat,
		PickupLon:  pickupLon,
		CourierID:  courierID,
		RetryCount: d.RetryCount(),
		Escalated:  d.Escalated(),
		CreatedAt:  d.CreatedAt(),
		UpdatedAt:  d.UpdatedAt(),
	}
}

// toDomain converts a database DTO back to a delivery aggregate.
func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	dropoff, err := kernel.NewGeoPoint(dto.Dropoff.Lat, dto.Dropoff.Lon)
	if err != nil {
		return nil, err
	}

	var pickup *kernel.GeoPoint
	if dto.PickupLat != nil && dto.PickupLon != nil {
		p, pErr := kernel.NewGeoPoint(*dto.PickupLat, *dto.PickupLon)
		if pErr != nil {
			return nil, pErr
		}
		pickup = &p
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, cErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if cErr != nil {
			return nil, cErr
		}
		courierID = &cID
	}

	return delivery.RestoreDelivery(id, orderID, customerID, dto.TrackingCode,
		delivery.Status(dto.Status), dropoff, pickup, courierID,
		dto.RetryCount, dto.Escalated, dto.CreatedAt, dto.UpdatedAt)
}
