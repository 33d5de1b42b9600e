package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetUnassignedClustersQueryIsNotConstructed = errors.New(
	"GetUnassignedClustersQuery must be created via NewGetUnassignedClustersQuery constructor",
)

// GetUnassignedClustersQuery retrieves every pending leg without a courier,
// the backlog the reassignment scheduler works through.
//
// Example:
//
//	query := NewGetUnassignedClustersQuery()
//	handler := NewGetUnassignedClustersQueryHandler(db)
//	backlog, err := handler.Handle(ctx, query)
type GetUnassignedClustersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetUnassignedClustersQuery creates a query for the unassigned backlog.
// This is a parameterless query.
func NewGetUnassignedClustersQuery() GetUnassignedClustersQuery {
	return GetUnassignedClustersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetUnassignedClustersQuery) Validate() error {
	return q.guard.Validate(ErrGetUnassignedClustersQueryIsNotConstructed)
}

// GetUnassignedClustersQueryResponse is one leg awaiting a courier.
type GetUnassignedClustersQueryResponse struct {
	ID               kernel.UUID
	DeliveryID       kernel.UUID
	SourceLocationID *kernel.UUID
	Source           *kernel.GeoPoint
	Dropoff          kernel.GeoPoint
	DistanceKm       float64
	Price            float64
	Sequence         int
	CreatedAt        time.Time
}
