// Package queries contains read-only operations over the dispatch store.
// Query handlers bypass the aggregates and read projections straight from
// the database, per the CQRS split used across the application layer.
package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetDeliveryQueryIsNotConstructed = errors.New(
	"GetDeliveryQuery must be created via NewGetDeliveryQuery constructor",
)

// GetDeliveryQuery retrieves one delivery with its legs and tracking.
//
// Example:
//
//	query, _ := NewGetDeliveryQuery(deliveryID)
//	handler := NewGetDeliveryQueryHandler(db)
//	resp, err := handler.Handle(ctx, query)
type GetDeliveryQuery struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetDeliveryQuery creates a query for one delivery.
func NewGetDeliveryQuery(deliveryID kernel.UUID) (GetDeliveryQuery, error) {
	q := GetDeliveryQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := q.setDeliveryID(deliveryID); err != nil {
		return GetDeliveryQuery{}, err
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q GetDeliveryQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryQueryIsNotConstructed)
}

// DeliveryID returns the requested delivery's identifier.
func (q GetDeliveryQuery) DeliveryID() kernel.UUID {
	return q.deliveryID
}

func (q *GetDeliveryQuery) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}
	q.deliveryID = deliveryID
	return nil
}

// TrackingResponse is the tracking sub-record of one leg.
type TrackingResponse struct {
	Location    *kernel.GeoPoint
	Status      string
	LastUpdated time.Time
}

// ClusterResponse is one leg of a delivery.
type ClusterResponse struct {
	ID               kernel.UUID
	SourceLocationID *kernel.UUID
	Source           *kernel.GeoPoint
	Dropoff          kernel.GeoPoint
	DistanceKm       float64
	Price            float64
	Status           string
	CourierID        *kernel.UUID
	Sequence         int
	Tracking         *TrackingResponse
}

// GetDeliveryQueryResponse is a delivery with its legs, ordered by sequence.
type GetDeliveryQueryResponse struct {
	ID           kernel.UUID
	OrderID      kernel.UUID
	CustomerID   kernel.UUID
	TrackingCode string
	Status       string
	Dropoff      kernel.GeoPoint
	CourierID    *kernel.UUID
	RetryCount   int
	CreatedAt    time.Time
	Clusters     []ClusterResponse
}
