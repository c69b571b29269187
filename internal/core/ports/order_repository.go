package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetActiveByCourier retrieves the order the courier is actively
	// engaged on (Assigned, PickedUp or OutForDelivery), or an
	// ObjectNotFound error when the courier has no active order.
	GetActiveByCourier(ctx context.Context, courierID kernel.UUID) (*order.Order, error)
}
