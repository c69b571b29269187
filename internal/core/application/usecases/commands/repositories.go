// Package commands contains the dispatch orchestration event handlers.
// Each inbound domain event (order ready, courier online, accept, reject,
// pickup, delivery, cancellation, offer expiry) is a command processed by
// its handler inside one transaction, so the order, its queue entry and the
// courier can never be observed in mutually inconsistent states.
// All handlers are idempotent: the event pipeline delivers at least once.
package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// CourierRepoFactory provides access to the courier repository within a transaction.
	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	// QueueRepoFactory provides access to the dispatch queue repository within a transaction.
	QueueRepoFactory interface {
		QueueRepository() ports.DispatchQueueRepository
	}

	// CourierUoW manages transactions for courier-only operations,
	// such as registration and presence flips that touch no order.
	CourierUoW interface {
		TxManager
		CourierRepoFactory
	}

	// CourierUoWFactory creates new courier unit of work instances.
	CourierUoWFactory interface {
		Create() CourierUoW
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// UoW manages transactions across the order, courier and queue
	// aggregates. Every dispatch event that moves the protocol forward uses
	// this one: the three contended records are mutated together or not at
	// all.
	UoW interface {
		TxManager
		CourierRepoFactory
		OrderRepoFactory
		QueueRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)
