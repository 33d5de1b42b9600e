package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCreateDeliveryCommandIsNotConstructed = errors.New(
	"CreateDeliveryCommand must be created via NewCreateDeliveryCommand constructor",
)

// ClusterSpec describes one requested delivery leg. All fields are optional:
// a leg without a source is dispatched from the delivery dropoff, a leg
// without its own dropoff inherits the delivery dropoff, and a leg without a
// price is priced by distance.
type ClusterSpec struct {
	SourceLocationID *kernel.UUID
	Source           *kernel.GeoPoint
	Dropoff          *kernel.GeoPoint
	Price            *float64
}

// CreateDeliveryCommand represents a request to open dispatch for an order:
// one delivery plus its initial legs.
//
// Example:
//
//	cmd, err := NewCreateDeliveryCommand(kernel.NewUUID(), orderID, customerID,
//	    dropoff, []ClusterSpec{{SourceLocationID: &storeID}})
//	if err != nil {
//	    return fmt.Errorf("invalid delivery data: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create delivery: %w", err)
//	}
type CreateDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	orderID    kernel.UUID
	customerID kernel.UUID
	dropoff    kernel.GeoPoint
	clusters   []ClusterSpec

	guard guard.ConstructorGuard
}

// NewCreateDeliveryCommand creates a command to open dispatch for an order.
// An empty clusters slice requests a single direct leg to the dropoff.
func NewCreateDeliveryCommand(
	deliveryID kernel.UUID,
	orderID kernel.UUID,
	customerID kernel.UUID,
	dropoff kernel.GeoPoint,
	clusters []ClusterSpec,
) (CreateDeliveryCommand, error) {
	cmd := CreateDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDeliveryID(deliveryID),
		cmd.setOrderID(orderID),
		cmd.setCustomerID(customerID),
		cmd.setDropoff(dropoff),
		cmd.setClusters(clusters),
	); err != nil {
		return CreateDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCreateDeliveryCommandIsNotConstructed)
}

// DeliveryID returns the identifier for the new delivery.
func (c CreateDeliveryCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// OrderID returns the originating order's identifier.
func (c CreateDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CustomerID returns the customer's identifier.
func (c CreateDeliveryCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// Dropoff returns the customer dropoff coordinates.
func (c CreateDeliveryCommand) Dropoff() kernel.GeoPoint {
	return c.dropoff
}

// Clusters returns the requested leg specifications.
func (c CreateDeliveryCommand) Clusters() []ClusterSpec {
	return c.clusters
}

func (c *CreateDeliveryCommand) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}
	c.deliveryID = deliveryID
	return nil
}

func (c *CreateDeliveryCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CreateDeliveryCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	c.customerID = customerID
	return nil
}

func (c *CreateDeliveryCommand) setDropoff(dropoff kernel.GeoPoint) error {
	if err := dropoff.Validate(); err != nil {
		return err
	}
	c.dropoff = dropoff
	return nil
}

func (c *CreateDeliveryCommand) setClusters(clusters []ClusterSpec) error {
	for _, spec := range clusters {
		if spec.SourceLocationID != nil {
			if err := spec.SourceLocationID.Validate(); err != nil {
				return err
			}
		}
		if spec.Source != nil {
			if err := spec.Source.Validate(); err != nil {
				return err
			}
		}
		if spec.Dropoff != nil {
			if err := spec.Dropoff.Validate(); err != nil {
				return err
			}
		}
	}
	c.clusters = clusters
	return nil
}
