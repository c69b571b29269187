package queries

import (
	"context"
	"database/sql"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/queue"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetDispatchBoardQueryHandler reads the live dispatch queue straight from
// the database, bypassing the aggregates for read performance.
type GetDispatchBoardQueryHandler struct {
	db *gorm.DB
}

// NewGetDispatchBoardQueryHandler creates a handler for dispatch board queries.
// Requires a GORM database connection for query execution.
func NewGetDispatchBoardQueryHandler(db *gorm.DB) GetDispatchBoardQueryHandler {
	return GetDispatchBoardQueryHandler{db: db}
}

// Handle executes the query and returns the live entries joined with their
// orders, oldest enqueued first.
func (h GetDispatchBoardQueryHandler) Handle(
	ctx context.Context,
	query GetDispatchBoardQuery,
) ([]GetDispatchBoardQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	board := make([]GetDispatchBoardQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			e.id,
			e.order_id,
			o.order_number,
			o.status,
			e.status,
			e.courier_id,
			e.attempts,
			e.expires_at,
			e.enqueued_at
		FROM dispatch_entries e
		JOIN orders o ON o.id = e.order_id
		WHERE e.status IN (?, ?, ?)
		ORDER BY e.enqueued_at
	`, queue.StatusQueued, queue.StatusOffered, queue.StatusAssigned).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var row GetDispatchBoardQueryResponse
		var entryID, orderID uuid.UUID
		var courierID uuid.NullUUID
		var expiresAt sql.NullTime

		err = rows.Scan(
			&entryID,
			&orderID,
			&row.OrderNumber,
			&row.OrderStatus,
			&row.QueueStatus,
			&courierID,
			&row.Attempts,
			&expiresAt,
			&row.EnqueuedAt,
		)
		if err != nil {
			return nil, err
		}

		row.EntryID, err = kernel.UUIDFromBytes(entryID[:])
		if err != nil {
			return nil, err
		}

		row.OrderID, err = kernel.UUIDFromBytes(orderID[:])
		if err != nil {
			return nil, err
		}

		if courierID.Valid {
			id, idErr := kernel.UUIDFromBytes(courierID.UUID[:])
			if idErr != nil {
				return nil, idErr
			}
			row.CourierID = &id
		}

		if expiresAt.Valid {
			t := expiresAt.Time
			row.ExpiresAt = &t
		}

		board = append(board, row)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return board, nil
}
