package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrDeclineOfferCommandIsNotConstructed = errors.New(
	"DeclineOfferCommand must be created via NewDeclineOfferCommand constructor",
)

// DeclineOfferCommand represents a courier refusing the leg offered to them.
type DeclineOfferCommand struct { //nolint:recvcheck //using for validation
	clusterID kernel.UUID
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewDeclineOfferCommand creates a command for a courier declining the
// active offer on a cluster.
func NewDeclineOfferCommand(clusterID, courierID kernel.UUID) (DeclineOfferCommand, error) {
	cmd := DeclineOfferCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setClusterID(clusterID),
		cmd.setCourierID(courierID),
	); err != nil {
		return DeclineOfferCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c DeclineOfferCommand) Validate() error {
	return c.guard.Validate(ErrDeclineOfferCommandIsNotConstructed)
}

// ClusterID returns the declined cluster's identifier.
func (c DeclineOfferCommand) ClusterID() kernel.UUID {
	return c.clusterID
}

// CourierID returns the declining courier's identifier.
func (c DeclineOfferCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c *DeclineOfferCommand) setClusterID(clusterID kernel.UUID) error {
	if err := clusterID.Validate(); err != nil {
		return err
	}
	c.clusterID = clusterID
	return nil
}

func (c *DeclineOfferCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	c.courierID = courierID
	return nil
}
