package queries

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/queue"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAvailableCouriersQueryHandler computes the available courier pool with
// one SQL query: the same derivation the matching engine uses, exposed as a
// read model.
type GetAvailableCouriersQueryHandler struct {
	db *gorm.DB
}

// NewGetAvailableCouriersQueryHandler creates a handler for availability queries.
// Requires a GORM database connection for query execution.
func NewGetAvailableCouriersQueryHandler(db *gorm.DB) GetAvailableCouriersQueryHandler {
	return GetAvailableCouriersQueryHandler{db: db}
}

// Handle executes the query. Returns couriers that are online, past any
// cooldown and not engaged on an offer, assignment or active order, sorted
// by name.
func (h GetAvailableCouriersQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableCouriersQuery,
) ([]GetAvailableCouriersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	couriers := make([]GetAvailableCouriersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			c.id,
			c.name
		FROM couriers c
		WHERE c.is_online
		  AND c.available_after <= ?
		  AND NOT EXISTS (
			SELECT 1 FROM dispatch_entries e
			WHERE e.courier_id = c.id AND e.status IN (?, ?)
		  )
		  AND NOT EXISTS (
			SELECT 1 FROM orders o
			WHERE o.courier_id = c.id AND o.status IN (?, ?, ?)
		  )
		ORDER BY c.name
	`,
		time.Now(),
		queue.StatusOffered, queue.StatusAssigned,
		order.Assigned, order.PickedUp, order.OutForDelivery,
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var courier GetAvailableCouriersQueryResponse
		var id uuid.UUID

		if err = rows.Scan(&id, &courier.Name); err != nil {
			return nil, err
		}

		courier.ID, err = kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}

		couriers = append(couriers, courier)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return couriers, nil
}
