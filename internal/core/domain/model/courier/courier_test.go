package courier_test

import (
	"testing"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCourier_ValidInput(t *testing.T) {
	id := kernel.NewUUID()
	userID := kernel.NewUUID()
	location, err := kernel.NewGeoPoint(30.0444, 31.2357)
	require.NoError(t, err)

	c, err := courier.NewCourier(id, userID, &location, true)
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, id, c.ID())
	assert.Equal(t, userID, c.UserID())
	require.NotNil(t, c.Location())
	assert.Equal(t, location, *c.Location())
	assert.True(t, c.IsAvailable())
	assert.True(t, c.IsLocated())
}

func TestNewCourier_NoLocation(t *testing.T) {
	c, err := courier.NewCourier(kernel.NewUUID(), kernel.NewUUID(), nil, false)
	require.NoError(t, err)

	assert.Nil(t, c.Location())
	assert.False(t, c.IsLocated())
	assert.False(t, c.IsAvailable())
}

func TestNewCourier_InvalidID(t *testing.T) {
	_, err := courier.NewCourier(kernel.UUID{}, kernel.NewUUID(), nil, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewCourier_InvalidUserID(t *testing.T) {
	_, err := courier.NewCourier(kernel.NewUUID(), kernel.UUID{}, nil, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewCourier_CopiesLocation(t *testing.T) {
	first, err := kernel.NewGeoPoint(30.0444, 31.2357)
	require.NoError(t, err)
	second, err := kernel.NewGeoPoint(31.2001, 29.9187)
	require.NoError(t, err)

	location := first
	c, err := courier.NewCourier(kernel.NewUUID(), kernel.NewUUID(), &location, true)
	require.NoError(t, err)

	// Mutating the caller's pointer must not move the courier.
	location = second
	assert.Equal(t, first, *c.Location())
}

func TestCourier_Validate_NotConstructed(t *testing.T) {
	var c courier.Courier
	require.ErrorIs(t, c.Validate(), courier.ErrCourierIsNotConstructed)

	var nilCourier *courier.Courier
	require.ErrorIs(t, nilCourier.Validate(), courier.ErrCourierIsNotConstructed)
}

func TestCourier_IsEqual(t *testing.T) {
	a, err := courier.NewCourier(kernel.NewUUID(), kernel.NewUUID(), nil, true)
	require.NoError(t, err)
	b, err := courier.NewCourier(kernel.NewUUID(), kernel.NewUUID(), nil, true)
	require.NoError(t, err)
	sameID, err := courier.NewCourier(a.ID(), kernel.NewUUID(), nil, false)
	require.NoError(t, err)

	assert.True(t, a.IsEqual(sameID))
	assert.False(t, a.IsEqual(b))
	assert.False(t, a.IsEqual(nil))
}
