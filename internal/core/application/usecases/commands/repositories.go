// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS
// architecture. All commands follow a consistent pattern: validation,
// transaction management, and persistence.
package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command
// handlers. These abstractions ensure data consistency across aggregate
// boundaries.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// DeliveryRepoFactory provides access to the delivery repository
	// within a transaction.
	DeliveryRepoFactory interface {
		DeliveryRepository() ports.DeliveryRepository
	}

	// ClusterRepoFactory provides access to the cluster repository within
	// a transaction.
	ClusterRepoFactory interface {
		ClusterRepository() ports.ClusterRepository
	}

	// OfferRepoFactory provides access to the offer repository within a
	// transaction.
	OfferRepoFactory interface {
		OfferRepository() ports.OfferRepository
	}

	// UoW manages transactions across the delivery, cluster and offer
	// aggregates. Dispatch decisions touch all three, so every handler
	// uses the full unit of work.
	//
	// Example:
	//
	//	uow := factory.Create()
	//	err := uow.Begin(ctx)
	//	defer uow.Rollback(ctx)
	//
	//	deliveryRepo := uow.DeliveryRepository()
	//	clusterRepo := uow.ClusterRepository()
	//	// ... perform operations
	//
	//	err = uow.Commit(ctx)
	UoW interface {
		TxManager
		DeliveryRepoFactory
		ClusterRepoFactory
		OfferRepoFactory
	}

	// UoWFactory creates new unit of work instances.
	UoWFactory interface {
		Create() UoW
	}
)
