package cluster_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/cluster"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDropoff() kernel.GeoPoint {
	p, _ := kernel.NewGeoPoint(30.0444, 31.2357)
	return p
}

func newPendingCluster(t *testing.T) *cluster.Cluster {
	t.Helper()
	c, err := cluster.NewCluster(
		kernel.NewUUID(), kernel.NewUUID(), nil, nil, validDropoff(),
		12.5, 50.0, 1, time.Now().UTC())
	require.NoError(t, err)
	return c
}

func TestNewCluster(t *testing.T) {
	now := time.Now().UTC()

	t.Run("should create pending leg with all valid parameters", func(t *testing.T) {
		id := kernel.NewUUID()
		deliveryID := kernel.NewUUID()
		sourceLocationID := kernel.NewUUID()
		source, _ := kernel.NewGeoPoint(31.2001, 29.9187)

		c, err := cluster.NewCluster(id, deliveryID, &sourceLocationID, &source,
			validDropoff(), 12.5, 50.0, 1, now)

		require.NoError(t, err)
		require.NoError(t, c.Validate())
		assert.True(t, c.ID().IsEqual(id))
		assert.True(t, c.DeliveryID().IsEqual(deliveryID))
		require.NotNil(t, c.SourceLocationID())
		assert.True(t, c.SourceLocationID().IsEqual(sourceLocationID))
		require.NotNil(t, c.Source())
		assert.Equal(t, source, *c.Source())
		assert.Equal(t, cluster.Pending, c.Status())
		assert.Equal(t, 12.5, c.DistanceKm())
		assert.Equal(t, 50.0, c.Price())
		assert.Equal(t, 1, c.Sequence())
		assert.Nil(t, c.Courier())
		assert.Nil(t, c.AssignedAt())
		assert.Nil(t, c.Tracking())
	})

	t.Run("should allow leg without source location or point", func(t *testing.T) {
		c, err := cluster.NewCluster(kernel.NewUUID(), kernel.NewUUID(), nil, nil,
			validDropoff(), 0, 0, 1, now)

		require.NoError(t, err)
		assert.Nil(t, c.SourceLocationID())
		assert.Nil(t, c.Source())
	})

	t.Run("should fail with invalid delivery ID", func(t *testing.T) {
		var invalid kernel.UUID

		c, err := cluster.NewCluster(kernel.NewUUID(), invalid, nil, nil,
			validDropoff(), 1, 1, 1, now)

		require.Error(t, err)
		assert.Nil(t, c)
		assert.Contains(t, err.Error(), "delivery ID")
	})

	t.Run("should fail with negative distance", func(t *testing.T) {
		c, err := cluster.NewCluster(kernel.NewUUID(), kernel.NewUUID(), nil, nil,
			validDropoff(), -1, 1, 1, now)

		require.Error(t, err)
		assert.Nil(t, c)
		assert.Contains(t, err.Error(), "distanceKm")
	})

	t.Run("should fail with negative price", func(t *testing.T) {
		c, err := cluster.NewCluster(kernel.NewUUID(), kernel.NewUUID(), nil, nil,
			validDropoff(), 1, -1, 1, now)

		require.Error(t, err)
		assert.Nil(t, c)
		assert.Contains(t, err.Error(), "price")
	})

	t.Run("should fail with negative sequence", func(t *testing.T) {
		c, err := cluster.NewCluster(kernel.NewUUID(), kernel.NewUUID(), nil, nil,
			validDropoff(), 1, 1, -1, now)

		require.Error(t, err)
		assert.Nil(t, c)
		assert.Contains(t, err.Error(), "sequence")
	})
}

func TestCluster_Validate(t *testing.T) {
	t.Run("should fail validation for nil cluster", func(t *testing.T) {
		var c *cluster.Cluster

		err := c.Validate()

		require.Error(t, err)
		assert.Equal(t, cluster.ErrClusterIsNotConstructed, err)
	})

	t.Run("should fail validation for zero value cluster", func(t *testing.T) {
		var c cluster.Cluster

		err := c.Validate()

		require.Error(t, err)
		assert.Equal(t, cluster.ErrClusterIsNotConstructed, err)
	})
}

func TestCluster_Assign(t *testing.T) {
	now := time.Now().UTC()
	courierID := kernel.NewUUID()

	t.Run("should assign courier to pending leg", func(t *testing.T) {
		c := newPendingCluster(t)

		err := c.Assign(courierID, now)

		require.NoError(t, err)
		assert.Equal(t, cluster.Assigned, c.Status())
		assert.True(t, c.IsAssignedTo(courierID))
		require.NotNil(t, c.AssignedAt())
		assert.Equal(t, now, *c.AssignedAt())
	})

	t.Run("should reassign courier on assigned leg", func(t *testing.T) {
		c := newPendingCluster(t)
		require.NoError(t, c.Assign(courierID, now))
		other := kernel.NewUUID()

		err := c.Assign(other, now)

		require.NoError(t, err)
		assert.True(t, c.IsAssignedTo(other))
	})

	t.Run("should fail with invalid courier ID", func(t *testing.T) {
		c := newPendingCluster(t)
		var invalid kernel.UUID

		err := c.Assign(invalid, now)

		require.Error(t, err)
		assert.Equal(t, cluster.Pending, c.Status())
	})

	t.Run("should fail on completed leg", func(t *testing.T) {
		c := newPendingCluster(t)
		require.NoError(t, c.Assign(courierID, now))
		require.NoError(t, c.Complete(now))

		err := c.Assign(kernel.NewUUID(), now)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrBusinessRule)
	})
}

func TestCluster_ClearAssignment(t *testing.T) {
	now := time.Now().UTC()

	t.Run("should return assigned leg to pending", func(t *testing.T) {
		c := newPendingCluster(t)
		require.NoError(t, c.Assign(kernel.NewUUID(), now))

		err := c.ClearAssignment(now)

		require.NoError(t, err)
		assert.Equal(t, cluster.Pending, c.Status())
		assert.Nil(t, c.Courier())
		assert.Nil(t, c.AssignedAt())
	})

	t.Run("should fail on cancelled leg", func(t *testing.T) {
		c := newPendingCluster(t)
		require.NoError(t, c.Cancel(now))

		err := c.ClearAssignment(now)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrBusinessRule)
	})
}

func TestCluster_CompleteAndCancel(t *testing.T) {
	now := time.Now().UTC()

	t.Run("should complete assigned leg", func(t *testing.T) {
		c := newPendingCluster(t)
		require.NoError(t, c.Assign(kernel.NewUUID(), now))

		err := c.Complete(now)

		require.NoError(t, err)
		assert.Equal(t, cluster.Completed, c.Status())
	})

	t.Run("should fail to complete pending leg", func(t *testing.T) {
		c := newPendingCluster(t)

		err := c.Complete(now)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrBusinessRule)
	})

	t.Run("should cancel pending leg", func(t *testing.T) {
		c := newPendingCluster(t)

		err := c.Cancel(now)

		require.NoError(t, err)
		assert.Equal(t, cluster.Cancelled, c.Status())
	})

	t.Run("should cancel assigned leg and drop courier", func(t *testing.T) {
		c := newPendingCluster(t)
		require.NoError(t, c.Assign(kernel.NewUUID(), now))

		err := c.Cancel(now)

		require.NoError(t, err)
		assert.Nil(t, c.Courier())
	})

	t.Run("should fail to cancel completed leg", func(t *testing.T) {
		c := newPendingCluster(t)
		require.NoError(t, c.Assign(kernel.NewUUID(), now))
		require.NoError(t, c.Complete(now))

		err := c.Cancel(now)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrBusinessRule)
	})
}

func TestCluster_UpdateTracking(t *testing.T) {
	now := time.Now().UTC()

	t.Run("should create tracking record on first update", func(t *testing.T) {
		c := newPendingCluster(t)
		loc, _ := kernel.NewGeoPoint(30.05, 31.24)

		err := c.UpdateTracking(&loc, now)

		require.NoError(t, err)
		require.NotNil(t, c.Tracking())
		require.NotNil(t, c.Tracking().Location)
		assert.Equal(t, loc, *c.Tracking().Location)
		assert.Equal(t, cluster.Pending, c.Tracking().Status)
		assert.Equal(t, now, c.Tracking().LastUpdated)
	})

	t.Run("should keep previous location on nil update", func(t *testing.T) {
		c := newPendingCluster(t)
		loc, _ := kernel.NewGeoPoint(30.05, 31.24)
		require.NoError(t, c.UpdateTracking(&loc, now))
		later := now.Add(time.Minute)

		err := c.UpdateTracking(nil, later)

		require.NoError(t, err)
		require.NotNil(t, c.Tracking().Location)
		assert.Equal(t, loc, *c.Tracking().Location)
		assert.Equal(t, later, c.Tracking().LastUpdated)
	})

	t.Run("should mirror current status", func(t *testing.T) {
		c := newPendingCluster(t)
		require.NoError(t, c.Assign(kernel.NewUUID(), now))

		err := c.UpdateTracking(nil, now)

		require.NoError(t, err)
		assert.Equal(t, cluster.Assigned, c.Tracking().Status)
	})

	t.Run("should reject invalid location", func(t *testing.T) {
		c := newPendingCluster(t)
		var invalid kernel.GeoPoint

		err := c.UpdateTracking(&invalid, now)

		require.Error(t, err)
		assert.Nil(t, c.Tracking())
	})
}

func TestRestoreCluster(t *testing.T) {
	now := time.Now().UTC()

	t.Run("should restore assigned leg with tracking", func(t *testing.T) {
		id := kernel.NewUUID()
		courierID := kernel.NewUUID()
		loc, _ := kernel.NewGeoPoint(30.05, 31.24)
		tracking := &cluster.Tracking{Location: &loc, Status: cluster.Assigned, LastUpdated: now}

		c, err := cluster.RestoreCluster(id, kernel.NewUUID(), nil, nil,
			validDropoff(), 12.5, 50.0, cluster.Assigned, &courierID, &now, 2,
			tracking, now, now)

		require.NoError(t, err)
		require.NoError(t, c.Validate())
		assert.Equal(t, cluster.Assigned, c.Status())
		assert.True(t, c.IsAssignedTo(courierID))
		assert.Equal(t, 2, c.Sequence())
		require.NotNil(t, c.Tracking())
		assert.Equal(t, loc, *c.Tracking().Location)
	})

	t.Run("should fail with unknown status", func(t *testing.T) {
		c, err := cluster.RestoreCluster(kernel.NewUUID(), kernel.NewUUID(), nil, nil,
			validDropoff(), 1, 1, cluster.Unknown, nil, nil, 1, nil, now, now)

		require.Error(t, err)
		assert.Nil(t, c)
	})
}
