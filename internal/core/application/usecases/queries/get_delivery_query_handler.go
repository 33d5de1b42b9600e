package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/cluster"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetDeliveryQueryHandler reads one delivery and its legs from the
// database.
type GetDeliveryQueryHandler struct {
	db *gorm.DB
}

// NewGetDeliveryQueryHandler creates a handler for delivery lookups.
// Requires a GORM database connection for query execution.
func NewGetDeliveryQueryHandler(db *gorm.DB) GetDeliveryQueryHandler {
	return GetDeliveryQueryHandler{db: db}
}

// Handle executes the lookup. Returns errs.ErrObjectNotFound when the
// delivery does not exist.
func (h GetDeliveryQueryHandler) Handle(
	ctx context.Context,
	query GetDeliveryQuery,
) (GetDeliveryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetDeliveryQueryResponse{}, err
	}

	resp, err := h.readDelivery(ctx, query.DeliveryID())
	if err != nil {
		return GetDeliveryQueryResponse{}, err
	}

	resp.Clusters, err = h.readClusters(ctx, query.DeliveryID())
	if err != nil {
		return GetDeliveryQueryResponse{}, err
	}

	return resp, nil
}

func (h GetDeliveryQueryHandler) readDelivery(
	ctx context.Context,
	deliveryID kernel.UUID,
) (GetDeliveryQueryResponse, error) {
	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			customer_id,
			tracking_code,
			status,
			dropoff_lat,
			dropoff_lon,
			courier_id,
			retry_count,
			created_at
		FROM deliveries
		WHERE id = ?
	`, deliveryID.Bytes()).Row()

	var (
		resp                   GetDeliveryQueryResponse
		id, orderID, custID    uuid.UUID
		status                 int
		dropoffLat, dropoffLon float64
		courierID              uuid.NullUUID
		createdAt              time.Time
	)

	err := row.Scan(&id, &orderID, &custID, &resp.TrackingCode, &status,
		&dropoffLat, &dropoffLon, &courierID, &resp.RetryCount, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return resp, errs.NewObjectNotFoundError("deliveryID", deliveryID.String())
	}
	if err != nil {
		return resp, err
	}

	if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return resp, err
	}
	if resp.OrderID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
		return resp, err
	}
	if resp.CustomerID, err = kernel.UUIDFromBytes(custID[:]); err != nil {
		return resp, err
	}
	if resp.Dropoff, err = kernel.NewGeoPoint(dropoffLat, dropoffLon); err != nil {
		return resp, err
	}
	if resp.CourierID, err = optionalUUID(courierID); err != nil {
		return resp, err
	}
	resp.Status = delivery.Status(status).String()
	resp.CreatedAt = createdAt

	return resp, nil
}

func (h GetDeliveryQueryHandler) readClusters(
	ctx context.Context,
	deliveryID kernel.UUID,
) ([]ClusterResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			source_location_id,
			source_lat,
			source_lon,
			dropoff_lat,
			dropoff_lon,
			distance_km,
			price,
			status,
			courier_id,
			sequence,
			tracking_lat,
			tracking_lon,
			tracking_status,
			tracking_updated_at
		FROM clusters
		WHERE delivery_id = ?
		ORDER BY sequence, created_at
	`, deliveryID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clusters := make([]ClusterResponse, 0)
	for rows.Next() {
		var (
			c                           ClusterResponse
			id                          uuid.UUID
			sourceLocationID, courierID uuid.NullUUID
			sourceLat, sourceLon        sql.NullFloat64
			dropoffLat, dropoffLon      float64
			status                      int
			trackLat, trackLon          sql.NullFloat64
			trackStatus                 sql.NullInt64
			trackUpdatedAt              sql.NullTime
		)

		if err = rows.Scan(&id, &sourceLocationID, &sourceLat, &sourceLon,
			&dropoffLat, &dropoffLon, &c.DistanceKm, &c.Price, &status,
			&courierID, &c.Sequence, &trackLat, &trackLon, &trackStatus,
			&trackUpdatedAt); err != nil {
			return nil, err
		}

		if c.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if c.SourceLocationID, err = optionalUUID(sourceLocationID); err != nil {
			return nil, err
		}
		if c.Source, err = optionalPoint(sourceLat, sourceLon); err != nil {
			return nil, err
		}
		if c.Dropoff, err = kernel.NewGeoPoint(dropoffLat, dropoffLon); err != nil {
			return nil, err
		}
		if c.CourierID, err = optionalUUID(courierID); err != nil {
			return nil, err
		}
		c.Status = cluster.Status(status).String()

		if trackUpdatedAt.Valid {
			location, perr := optionalPoint(trackLat, trackLon)
			if perr != nil {
				return nil, perr
			}
			c.Tracking = &TrackingResponse{
				Location:    location,
				Status:      cluster.Status(trackStatus.Int64).String(),
				LastUpdated: trackUpdatedAt.Time,
			}
		}

		clusters = append(clusters, c)
	}

	return clusters, rows.Err()
}

func optionalUUID(v uuid.NullUUID) (*kernel.UUID, error) {
	if !v.Valid {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(v.UUID[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func optionalPoint(lat, lon sql.NullFloat64) (*kernel.GeoPoint, error) {
	if !lat.Valid || !lon.Valid {
		return nil, nil
	}
	p, err := kernel.NewGeoPoint(lat.Float64, lon.Float64)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
