package ports

import (
	"context"

	"dispatch/internal/core/domain/model/cluster"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrClusterAlreadyAssigned is returned by Assign when the conditional
// update matched no row: another courier already holds the cluster.
var ErrClusterAlreadyAssigned = errs.NewBusinessRuleError("cluster is already assigned to another courier")

// ClusterRepository defines the persistence contract for delivery legs.
type ClusterRepository interface {
	// Add persists a new cluster to storage.
	Add(ctx context.Context, aggregate *cluster.Cluster) error

	// Update persists changes to an existing cluster.
	Update(ctx context.Context, aggregate *cluster.Cluster) error

	// Assign persists a courier assignment only if the cluster is still
	// unassigned. Returns ErrClusterAlreadyAssigned when another courier
	// won the race, so accepting an offer is first-accept-wins even
	// across processes.
	Assign(ctx context.Context, aggregate *cluster.Cluster) error

	// Get retrieves a cluster by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*cluster.Cluster, error)

	// GetByDelivery retrieves all clusters of a delivery ordered by
	// sequence.
	GetByDelivery(ctx context.Context, deliveryID kernel.UUID) ([]*cluster.Cluster, error)

	// GetAllUnassigned retrieves pending clusters without a courier.
	GetAllUnassigned(ctx context.Context) ([]*cluster.Cluster, error)

	// Delete removes a cluster. Only used when a split replaces the
	// original leg; lifecycle ends otherwise go through status updates.
	Delete(ctx context.Context, id kernel.UUID) error
}
