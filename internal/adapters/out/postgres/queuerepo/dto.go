// Package queuerepo provides data transfer objects and mapping functions for
// dispatch queue persistence. The table carries the two constraints the
// dispatch protocol leans on: at most one live entry per order and at most
// one pending offer or assignment per courier, both enforced with partial
// unique indexes so terminal entries never collide with live ones.
package queuerepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/queue"

	"github.com/google/uuid"
)

// EntryDTO represents the database structure for persisting dispatch queue
// entries. Status values are the queue.Status integers: 1 Queued, 2 Offered,
// 3 Assigned, 4 Cancelled, 5 Exhausted, 6 Completed. Version is the
// optimistic concurrency token bumped on every write.
type EntryDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_dispatch_entries_live_order,where:status IN (1,2,3)"`
	Status     int        `gorm:"index"`
	CourierID  *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_dispatch_entries_engaged_courier,where:status IN (2,3)"`
	Attempts   int
	ExpiresAt  *time.Time `gorm:"index"`
	EnqueuedAt time.Time  `gorm:"index"`
	Version    int
}

// TableName specifies the database table name for dispatch queue entries.
func (EntryDTO) TableName() string {
	return "dispatch_entries"
}

// fromDomain converts a queue entry aggregate to its database representation.
func fromDomain(aggregate *queue.Entry) EntryDTO {
	var courierID *uuid.UUID
	if id := aggregate.Courier(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	var expiresAt *time.Time
	if t := aggregate.ExpiresAt(); !t.IsZero() {
		expiresAt = &t
	}

	return EntryDTO{
		ID:         aggregate.ID().Bytes(),
		OrderID:    aggregate.OrderID().Bytes(),
		Status:     int(aggregate.Status()),
		CourierID:  courierID,
		Attempts:   aggregate.Attempts(),
		ExpiresAt:  expiresAt,
		EnqueuedAt: aggregate.EnqueuedAt(),
		Version:    aggregate.Version(),
	}
}

// toDomain converts a database DTO to a queue entry aggregate.
func toDomain(dto EntryDTO) (*queue.Entry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}

		courierID = &cID
	}

	var expiresAt time.Time
	if dto.ExpiresAt != nil {
		expiresAt = *dto.ExpiresAt
	}

	return queue.RestoreEntry(
		id,
		orderID,
		queue.Status(dto.Status),
		courierID,
		dto.Attempts,
		expiresAt,
		dto.EnqueuedAt,
		dto.Version,
	)
}
