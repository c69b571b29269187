// Package ports defines repository, unit-of-work and notification contracts
// for the dispatch core. These interfaces establish contracts between the
// domain layer and infrastructure, enabling dependency inversion and
// testability.
package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier aggregates.
//
// Availability is derived, never stored: a courier is available for offers
// when online, past the post-delivery cooldown gate, holding no engaged
// queue entry and assigned to no active order. The repository evaluates
// that definition in one query so callers cannot get it subtly wrong.
type CourierRepository interface {
	// Add persists a new courier aggregate to storage.
	Add(ctx context.Context, aggregate *courier.Courier) error

	// Update persists changes to an existing courier aggregate.
	Update(ctx context.Context, aggregate *courier.Courier) error

	// Get retrieves a courier aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetAllAvailable retrieves the couriers available for offers at the
	// given instant, oldest-available-first (FIFO over the availability
	// pool). Returns an empty slice when the pool is empty.
	GetAllAvailable(ctx context.Context, now time.Time) ([]*courier.Courier, error)

	// IsAvailable reports whether one specific courier is available for
	// offers at the given instant, by the same derived definition as
	// GetAllAvailable.
	IsAvailable(ctx context.Context, id kernel.UUID, now time.Time) (bool, error)
}
