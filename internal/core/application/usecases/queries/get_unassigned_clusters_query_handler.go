package queries

import (
	"context"
	"database/sql"
	"time"

	"dispatch/internal/core/domain/model/cluster"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetUnassignedClustersQueryHandler reads the unassigned pending legs from
// the database.
type GetUnassignedClustersQueryHandler struct {
	db *gorm.DB
}

// NewGetUnassignedClustersQueryHandler creates a handler for backlog
// queries. Requires a GORM database connection for query execution.
func NewGetUnassignedClustersQueryHandler(db *gorm.DB) GetUnassignedClustersQueryHandler {
	return GetUnassignedClustersQueryHandler{db: db}
}

// Handle executes the backlog query. Results are ordered oldest first so
// the longest-waiting legs surface at the top.
func (h GetUnassignedClustersQueryHandler) Handle(
	ctx context.Context,
	query GetUnassignedClustersQuery,
) ([]GetUnassignedClustersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			delivery_id,
			source_location_id,
			source_lat,
			source_lon,
			dropoff_lat,
			dropoff_lon,
			distance_km,
			price,
			sequence,
			created_at
		FROM clusters
		WHERE status = ? AND courier_id IS NULL
		ORDER BY created_at
	`, int(cluster.Pending)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	backlog := make([]GetUnassignedClustersQueryResponse, 0)
	for rows.Next() {
		var (
			item                   GetUnassignedClustersQueryResponse
			id, deliveryID         uuid.UUID
			sourceLocationID       uuid.NullUUID
			sourceLat, sourceLon   sql.NullFloat64
			dropoffLat, dropoffLon float64
			createdAt              time.Time
		)

		if err = rows.Scan(&id, &deliveryID, &sourceLocationID, &sourceLat,
			&sourceLon, &dropoffLat, &dropoffLon, &item.DistanceKm,
			&item.Price, &item.Sequence, &createdAt); err != nil {
			return nil, err
		}

		if item.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if item.DeliveryID, err = kernel.UUIDFromBytes(deliveryID[:]); err != nil {
			return nil, err
		}
		if item.SourceLocationID, err = optionalUUID(sourceLocationID); err != nil {
			return nil, err
		}
		if item.Source, err = optionalPoint(sourceLat, sourceLon); err != nil {
			return nil, err
		}
		if item.Dropoff, err = kernel.NewGeoPoint(dropoffLat, dropoffLon); err != nil {
			return nil, err
		}
		item.CreatedAt = createdAt

		backlog = append(backlog, item)
	}

	return backlog, rows.Err()
}
