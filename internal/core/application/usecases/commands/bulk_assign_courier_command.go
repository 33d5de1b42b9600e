package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrBulkAssignCourierCommandIsNotConstructed = errors.New(
	"BulkAssignCourierCommand must be created via NewBulkAssignCourierCommand constructor",
)

// BulkAssignCourierCommand represents an operator putting one courier on a
// batch of legs, bypassing matching and offers.
type BulkAssignCourierCommand struct { //nolint:recvcheck //using for validation
	clusterIDs []kernel.UUID
	courierID  kernel.UUID

	guard guard.ConstructorGuard
}

// NewBulkAssignCourierCommand creates a command to assign a courier to
// several clusters at once. At least one cluster is required.
func NewBulkAssignCourierCommand(clusterIDs []kernel.UUID, courierID kernel.UUID) (BulkAssignCourierCommand, error) {
	cmd := BulkAssignCourierCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setClusterIDs(clusterIDs),
		cmd.setCourierID(courierID),
	); err != nil {
		return BulkAssignCourierCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c BulkAssignCourierCommand) Validate() error {
	return c.guard.Validate(ErrBulkAssignCourierCommandIsNotConstructed)
}

// ClusterIDs returns the clusters to assign.
func (c BulkAssignCourierCommand) ClusterIDs() []kernel.UUID {
	return c.clusterIDs
}

// CourierID returns the courier to put on every cluster.
func (c BulkAssignCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c *BulkAssignCourierCommand) setClusterIDs(clusterIDs []kernel.UUID) error {
	if len(clusterIDs) == 0 {
		return errs.NewValueIsRequiredError("clusterIDs")
	}
	for _, id := range clusterIDs {
		if err := id.Validate(); err != nil {
			return err
		}
	}
	c.clusterIDs = clusterIDs
	return nil
}

func (c *BulkAssignCourierCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	c.courierID = courierID
	return nil
}
