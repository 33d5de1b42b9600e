package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrUpdateTrackingCommandIsNotConstructed = errors.New(
	"UpdateTrackingCommand must be created via NewUpdateTrackingCommand constructor",
)

// UpdateTrackingCommand represents a courier position report for one leg.
// A nil location refreshes the tracking timestamp and status mirror without
// moving the reported position.
type UpdateTrackingCommand struct { //nolint:recvcheck //using for validation
	clusterID kernel.UUID
	location  *kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewUpdateTrackingCommand creates a command to record a tracking update.
func NewUpdateTrackingCommand(clusterID kernel.UUID, location *kernel.GeoPoint) (UpdateTrackingCommand, error) {
	cmd := UpdateTrackingCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setClusterID(clusterID),
		cmd.setLocation(location),
	); err != nil {
		return UpdateTrackingCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateTrackingCommand) Validate() error {
	return c.guard.Validate(ErrUpdateTrackingCommandIsNotConstructed)
}

// ClusterID returns the tracked cluster's identifier.
func (c UpdateTrackingCommand) ClusterID() kernel.UUID {
	return c.clusterID
}

// Location returns the reported position, or nil.
func (c UpdateTrackingCommand) Location() *kernel.GeoPoint {
	return c.location
}

func (c *UpdateTrackingCommand) setClusterID(clusterID kernel.UUID) error {
	if err := clusterID.Validate(); err != nil {
		return err
	}
	c.clusterID = clusterID
	return nil
}

func (c *UpdateTrackingCommand) setLocation(location *kernel.GeoPoint) error {
	if location == nil {
		return nil
	}
	if err := location.Validate(); err != nil {
		return err
	}
	p := *location
	c.location = &p
	return nil
}
