package clusterrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/cluster"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormClusterRepository implements ClusterRepository using GORM.
type GormClusterRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormClusterRepository creates a new GORM cluster repository.
func NewGormClusterRepository(db *gorm.DB, tracker aggregateTracker) *GormClusterRepository {
	return &GormClusterRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new cluster to the database.
func (r *GormClusterRepository) Add(ctx context.Context, aggregate *cluster.Cluster) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing cluster to the database, writing zero-valued
// columns too so cleared assignments persist.
func (r *GormClusterRepository) Update(ctx context.Context, aggregate *cluster.Cluster) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&ClusterDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Assign persists a courier assignment with a conditional update: the write
// only lands while the row is still unassigned, so of two concurrent
// assignments exactly one wins and the loser gets
// ports.ErrClusterAlreadyAssigned.
func (r *GormClusterRepository) Assign(ctx context.Context, aggregate *cluster.Cluster) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&ClusterDTO{}).
		Where("id = ? AND courier_id IS NULL", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&ClusterDTO{}).
			Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("cluster", aggregate.ID().String())
		}
		return ports.ErrClusterAlreadyAssigned
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a cluster by ID.
func (r *GormClusterRepository) Get(ctx context.Context, id kernel.UUID) (*cluster.Cluster, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ClusterDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("cluster", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByDelivery retrieves all clusters of a delivery ordered by sequence.
func (r *GormClusterRepository) GetByDelivery(ctx context.Context, deliveryID kernel.UUID) ([]*cluster.Cluster, error) {
	if err := deliveryID.Validate(); err != nil {
		return nil, err
	}

	var dtos []ClusterDTO
	if err := r.db.WithContext(ctx).
		Order("sequence, created_at").
		Find(&dtos, "delivery_id = ?", deliveryID.Bytes()).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetAllUnassigned retrieves pending clusters without a courier, oldest
// first.
func (r *GormClusterRepository) GetAllUnassigned(ctx context.Context) ([]*cluster.Cluster, error) {
	var dtos []ClusterDTO
	if err := r.db.WithContext(ctx).
		Order("created_at").
		Find(&dtos, "status = ? AND courier_id IS NULL", int(cluster.Pending)).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// Delete removes a cluster row. Used only when a split replaces the
// original leg.
func (r *GormClusterRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&ClusterDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("cluster", id.String())
	}

	return nil
}

func toDomainSlice(dtos []ClusterDTO) ([]*cluster.Cluster, error) {
	clusters := make([]*cluster.Cluster, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		clusters = append(clusters, c)
	}
	return clusters, nil
}
