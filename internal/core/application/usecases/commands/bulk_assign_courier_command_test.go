package commands_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBulkAssignCourierCommand_ValidInput(t *testing.T) {
	clusterIDs := []kernel.UUID{kernel.NewUUID(), kernel.NewUUID()}
	courierID := kernel.NewUUID()

	cmd, err := commands.NewBulkAssignCourierCommand(clusterIDs, courierID)
	require.NoError(t, err)
	assert.Equal(t, clusterIDs, cmd.ClusterIDs())
	assert.Equal(t, courierID, cmd.CourierID())
}

func TestNewBulkAssignCourierCommand_EmptyClusterIDs(t *testing.T) {
	_, err := commands.NewBulkAssignCourierCommand(nil, kernel.NewUUID())
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestNewBulkAssignCourierCommand_InvalidClusterID(t *testing.T) {
	_, err := commands.NewBulkAssignCourierCommand(
		[]kernel.UUID{kernel.NewUUID(), {}}, kernel.NewUUID())
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewBulkAssignCourierCommand_InvalidCourierID(t *testing.T) {
	_, err := commands.NewBulkAssignCourierCommand(
		[]kernel.UUID{kernel.NewUUID()}, kernel.UUID{})
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestBulkAssignCourierCommand_Validate_ZeroValue(t *testing.T) {
	var cmd commands.BulkAssignCourierCommand
	require.ErrorIs(t, cmd.Validate(), commands.ErrBulkAssignCourierCommandIsNotConstructed)
}
