// Package clusterrepo provides data transfer objects and mapping functions
// for delivery-leg persistence, including the conditional assignment update
// that makes courier placement race-safe.
package clusterrepo

import (
	"time"

	"dispatch/internal/core/domain/model/cluster"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// ClusterDTO represents the database structure for persisting delivery
// legs. The tracking sub-record is flattened into nullable columns; a
// non-null tracking_updated_at means the record exists.
type ClusterDTO struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	DeliveryID       uuid.UUID  `gorm:"type:uuid;index"`
	SourceLocationID *uuid.UUID `gorm:"type:uuid"`
	SourceLat        *float64
	SourceLon        *float64
	Dropoff          GeoPointDTO `gorm:"embedded;embeddedPrefix:dropoff_"`
	DistanceKm       float64
	Price            float64
	Status           int        `gorm:"index"`
	CourierID        *uuid.UUID `gorm:"type:uuid;index"`
	AssignedAt       *time.Time
	Sequence         int

	TrackingLat       *float64
	TrackingLon       *float64
	TrackingStatus    *int
	TrackingUpdatedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for cluster entities.
func (ClusterDTO) TableName() string {
	return "clusters"
}

// GeoPointDTO represents embedded coordinates within a table row.
type GeoPointDTO struct {
	Lat float64
	Lon float64
}

// fromDomain converts a cluster to its database representation.
func fromDomain(c *cluster.Cluster) ClusterDTO {
	dto := ClusterDTO{
		ID:         c.ID().Bytes(),
		DeliveryID: c.DeliveryID().Bytes(),
		Dropoff: GeoPointDTO{
			Lat: c.Dropoff().Lat(),
			Lon: c.Dropoff().Lon(),
		},
		DistanceKm: c.DistanceKm(),
		Price:      c.Price(),
		Status:     int(c.Status()),
		Sequence:   c.Sequence(),
		CreatedAt:  c.CreatedAt(),
		UpdatedAt:  c.UpdatedAt(),
	}

	if id := c.SourceLocationID(); id != nil {
		raw := id.Bytes()
		dto.SourceLocationID = &raw
	}
	if p := c.Source(); p != nil {
		lat, lon := p.Lat(), p.Lon()
		dto.SourceLat, dto.SourceLon = &lat, &lon
	}
	if id := c.Courier(); id != nil {
		raw := id.Bytes()
		dto.CourierID = &raw
	}
	if at := c.AssignedAt(); at != nil {
		t := *at
		dto.AssignedAt = &t
	}
	if tr := c.Tracking(); tr != nil {
		if tr.Location != nil {
			lat, lon := tr.Location.Lat(), tr.Location.Lon()
			dto.TrackingLat, dto.TrackingLon = &lat, &lon
		}
		status := int(tr.Status)
		updated := tr.LastUpdated
		dto.TrackingStatus = &status
		dto.TrackingUpdatedAt = &updated
	}

	return dto
}

// toDomain converts a database DTO back to a cluster.
func toDomain(dto ClusterDTO) (*cluster.Cluster, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	deliveryID, err := kernel.UUIDFromBytes(dto.DeliveryID[:])
	if err != nil {
		return nil, err
	}

	var sourceLocationID *kernel.UUID
	if dto.SourceLocationID != nil {
		sID, sErr := kernel.UUIDFromBytes((*dto.SourceLocationID)[:])
		if sErr != nil {
			return nil, sErr
		}
		sourceLocationID = &sID
	}

	var source *kernel.GeoPoint
	if dto.SourceLat != nil && dto.SourceLon != nil {
		p, pErr := kernel.NewGeoPoint(*dto.SourceLat, *dto.SourceLon)
		if pErr != nil {
			return nil, pErr
		}
		source = &p
	}

	dropoff, err := kernel.NewGeoPoint(dto.Dropoff.Lat, dto.Dropoff.Lon)
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, cErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if cErr != nil {
			return nil, cErr
		}
		courierID = &cID
	}

	var tracking *cluster.Tracking
	if dto.TrackingUpdatedAt != nil {
		tracking = &cluster.Tracking{
			LastUpdated: *dto.TrackingUpdatedAt,
		}
		if dto.TrackingStatus != nil {
			tracking.Status = cluster.Status(*dto.TrackingStatus)
		}
		if dto.TrackingLat != nil && dto.TrackingLon != nil {
			p, pErr := kernel.NewGeoPoint(*dto.TrackingLat, *dto.TrackingLon)
			if pErr != nil {
				return nil, pErr
			}
			tracking.Location = &p
		}
	}

	return cluster.RestoreCluster(id, deliveryID, sourceLocationID, source,
		dropoff, dto.DistanceKm, dto.Price, cluster.Status(dto.Status),
		courierID, dto.AssignedAt, dto.Sequence, tracking,
		dto.CreatedAt, dto.UpdatedAt)
}
