package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/queue"
	"dispatch/internal/pkg/guard"
)

var ErrGetDispatchBoardQueryIsNotConstructed = errors.New(
	"GetDispatchBoardQuery must be created via NewGetDispatchBoardQuery constructor",
)

// GetDispatchBoardQuery retrieves every order currently moving through
// dispatch: waiting, offered and accepted-but-not-yet-picked-up. Feeds the
// operations dashboard.
//
// Example:
//
//	query := NewGetDispatchBoardQuery()
//	handler := NewGetDispatchBoardQueryHandler(db)
//
//	board, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to load dispatch board: %w", err)
//	}
//	fmt.Printf("%d orders in dispatch\n", len(board))
type GetDispatchBoardQuery struct {
	guard guard.ConstructorGuard
}

// NewGetDispatchBoardQuery creates a query for the live dispatch board.
// This is a parameterless query covering all live queue entries.
func NewGetDispatchBoardQuery() GetDispatchBoardQuery {
	return GetDispatchBoardQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetDispatchBoardQueryIsNotConstructed if validation fails.
func (q GetDispatchBoardQuery) Validate() error {
	return q.guard.Validate(ErrGetDispatchBoardQueryIsNotConstructed)
}

// GetDispatchBoardQueryResponse is one row of the dispatch board: a queue
// entry joined with its order, oldest first.
type GetDispatchBoardQueryResponse struct {
	EntryID     kernel.UUID
	OrderID     kernel.UUID
	OrderNumber string
	OrderStatus order.Status
	QueueStatus queue.Status
	CourierID   *kernel.UUID
	Attempts    int
	ExpiresAt   *time.Time
	EnqueuedAt  time.Time
}
