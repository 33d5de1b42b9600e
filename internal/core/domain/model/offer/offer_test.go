package offer_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/offer"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingOffer(t *testing.T, now time.Time) *offer.Offer {
	t.Helper()
	o, err := offer.NewOffer(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		kernel.NewUUID(), now, now.Add(10*time.Minute))
	require.NoError(t, err)
	return o
}

func TestNewOffer(t *testing.T) {
	now := time.Now().UTC()

	t.Run("should create pending active offer", func(t *testing.T) {
		id := kernel.NewUUID()
		clusterID := kernel.NewUUID()
		deliveryID := kernel.NewUUID()
		courierID := kernel.NewUUID()
		expiresAt := now.Add(10 * time.Minute)

		o, err := offer.NewOffer(id, clusterID, deliveryID, courierID, now, expiresAt)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.True(t, o.ID().IsEqual(id))
		assert.True(t, o.ClusterID().IsEqual(clusterID))
		assert.True(t, o.DeliveryID().IsEqual(deliveryID))
		assert.True(t, o.CourierID().IsEqual(courierID))
		assert.Equal(t, offer.Pending, o.Status())
		assert.True(t, o.IsActive())
		assert.Equal(t, expiresAt, o.ExpiresAt())
		assert.Nil(t, o.RespondedAt())
	})

	t.Run("should fail when expiry is not after creation", func(t *testing.T) {
		o, err := offer.NewOffer(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			kernel.NewUUID(), now, now)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "expiresAt")
	})

	t.Run("should fail with invalid courier ID", func(t *testing.T) {
		var invalid kernel.UUID

		o, err := offer.NewOffer(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			invalid, now, now.Add(time.Minute))

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "courier ID")
	})
}

func TestOffer_Validate(t *testing.T) {
	t.Run("should fail validation for nil offer", func(t *testing.T) {
		var o *offer.Offer

		err := o.Validate()

		require.Error(t, err)
		assert.Equal(t, offer.ErrOfferIsNotConstructed, err)
	})

	t.Run("should fail validation for zero value offer", func(t *testing.T) {
		var o offer.Offer

		err := o.Validate()

		require.Error(t, err)
		assert.Equal(t, offer.ErrOfferIsNotConstructed, err)
	})
}

func TestOffer_Resolution(t *testing.T) {
	now := time.Now().UTC()

	t.Run("should accept pending offer", func(t *testing.T) {
		o := newPendingOffer(t, now)
		respondedAt := now.Add(time.Minute)

		err := o.Accept(respondedAt)

		require.NoError(t, err)
		assert.Equal(t, offer.Accepted, o.Status())
		assert.False(t, o.IsActive())
		require.NotNil(t, o.RespondedAt())
		assert.Equal(t, respondedAt, *o.RespondedAt())
	})

	t.Run("should decline pending offer", func(t *testing.T) {
		o := newPendingOffer(t, now)

		err := o.Decline(now)

		require.NoError(t, err)
		assert.Equal(t, offer.Declined, o.Status())
		assert.False(t, o.IsActive())
	})

	t.Run("should expire pending offer", func(t *testing.T) {
		o := newPendingOffer(t, now)

		err := o.Expire(now)

		require.NoError(t, err)
		assert.Equal(t, offer.Expired, o.Status())
		assert.False(t, o.IsActive())
	})

	t.Run("should cancel pending offer", func(t *testing.T) {
		o := newPendingOffer(t, now)

		err := o.Cancel(now)

		require.NoError(t, err)
		assert.Equal(t, offer.Cancelled, o.Status())
		assert.False(t, o.IsActive())
	})

	t.Run("should resolve exactly once", func(t *testing.T) {
		o := newPendingOffer(t, now)
		require.NoError(t, o.Accept(now))

		for _, resolve := range []func(time.Time) error{o.Accept, o.Decline, o.Expire, o.Cancel} {
			err := resolve(now)

			require.Error(t, err)
			assert.ErrorIs(t, err, offer.ErrOfferNotPending)
			assert.ErrorIs(t, err, errs.ErrBusinessRule)
		}
		assert.Equal(t, offer.Accepted, o.Status())
	})
}

func TestOffer_IsExpired(t *testing.T) {
	now := time.Now().UTC()

	t.Run("should not be expired before deadline", func(t *testing.T) {
		o := newPendingOffer(t, now)

		assert.False(t, o.IsExpired(now.Add(9*time.Minute)))
	})

	t.Run("should be expired at and after deadline", func(t *testing.T) {
		o := newPendingOffer(t, now)

		assert.True(t, o.IsExpired(now.Add(10*time.Minute)))
		assert.True(t, o.IsExpired(now.Add(time.Hour)))
	})

	t.Run("should never report resolved offer as expired", func(t *testing.T) {
		o := newPendingOffer(t, now)
		require.NoError(t, o.Accept(now))

		assert.False(t, o.IsExpired(now.Add(time.Hour)))
	})
}

func TestOffer_RePoint(t *testing.T) {
	now := time.Now().UTC()

	t.Run("should retarget pending offer at another cluster", func(t *testing.T) {
		o := newPendingOffer(t, now)
		newClusterID := kernel.NewUUID()

		err := o.RePoint(newClusterID)

		require.NoError(t, err)
		assert.True(t, o.ClusterID().IsEqual(newClusterID))
		assert.Equal(t, offer.Pending, o.Status())
	})

	t.Run("should fail on resolved offer", func(t *testing.T) {
		o := newPendingOffer(t, now)
		require.NoError(t, o.Decline(now))

		err := o.RePoint(kernel.NewUUID())

		require.Error(t, err)
		assert.ErrorIs(t, err, offer.ErrOfferNotPending)
	})

	t.Run("should fail with invalid cluster ID", func(t *testing.T) {
		o := newPendingOffer(t, now)
		original := o.ClusterID()
		var invalid kernel.UUID

		err := o.RePoint(invalid)

		require.Error(t, err)
		assert.True(t, o.ClusterID().IsEqual(original))
	})
}

func TestRestoreOffer(t *testing.T) {
	now := time.Now().UTC()

	t.Run("should restore resolved offer", func(t *testing.T) {
		respondedAt := now.Add(time.Minute)

		o, err := offer.RestoreOffer(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			kernel.NewUUID(), offer.Declined, false, now, now.Add(10*time.Minute), &respondedAt)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.Equal(t, offer.Declined, o.Status())
		assert.False(t, o.IsActive())
		require.NotNil(t, o.RespondedAt())
		assert.Equal(t, respondedAt, *o.RespondedAt())
	})

	t.Run("should fail with unknown status", func(t *testing.T) {
		o, err := offer.RestoreOffer(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			kernel.NewUUID(), offer.Unknown, true, now, now.Add(time.Minute), nil)

		require.Error(t, err)
		assert.Nil(t, o)
	})
}
