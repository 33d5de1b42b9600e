// Package offerrepo provides data transfer objects and mapping functions
// for offer persistence.
package offerrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/offer"

	"github.com/google/uuid"
)

// OfferDTO represents the database structure for persisting offers. The
// active flag is indexed because both the ledger lookups and the
// scheduler's expiry scan filter on it.
type OfferDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ClusterID   uuid.UUID `gorm:"type:uuid;index"`
	DeliveryID  uuid.UUID `gorm:"type:uuid;index"`
	CourierID   uuid.UUID `gorm:"type:uuid;index"`
	Status      int
	Active      bool `gorm:"index"`
	CreatedAt   time.Time
	ExpiresAt   time.Time
	RespondedAt *time.Time
}

// TableName specifies the database table name for offer entities.
func (OfferDTO) TableName() string {
	return "offers"
}

// fromDomain converts an offer to its database representation.
func fromDomain(o *offer.Offer) OfferDTO {
	dto := OfferDTO{
		ID:         o.ID().Bytes(),
		ClusterID:  o.ClusterID().Bytes(),
		DeliveryID: o.DeliveryID().Bytes(),
		CourierID:  o.CourierID().Bytes(),
		Status:     int(o.Status()),
		Active:     o.IsActive(),
		CreatedAt:  o.CreatedAt(),
		ExpiresAt:  o.ExpiresAt(),
	}

	if at := o.RespondedAt(); at != nil {
		t := *at
		dto.RespondedAt = &t
	}

	return dto
}

// toDomain converts a database DTO back to an offer.
func toDomain(dto OfferDTO) (*offer.Offer, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	clusterID, err := kernel.UUIDFromBytes(dto.ClusterID[:])
	if err != nil {
		return nil, err
	}
	deliveryID, err := kernel.UUIDFromBytes(dto.DeliveryID[:])
	if err != nil {
		return nil, err
	}
	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return nil, err
	}

	return offer.RestoreOffer(id, clusterID, deliveryID, courierID,
		offer.Status(dto.Status), dto.Active, dto.CreatedAt, dto.ExpiresAt,
		dto.RespondedAt)
}
