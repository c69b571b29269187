package queuerepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/queue"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDispatchQueueRepository implements DispatchQueueRepository using GORM.
//
// Two write paths carry the concurrency guarantees. ClaimForOffer is a
// single conditional UPDATE on the Queued status, so of N concurrent
// matchers exactly one wins the entry. Update is guarded by the entry's
// version, so a sweep replica working from a stale read loses cleanly with
// ErrEntryNotAvailable instead of overwriting a newer state.
type GormDispatchQueueRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormDispatchQueueRepository creates a new GORM dispatch queue repository.
func NewGormDispatchQueueRepository(db *gorm.DB, tracker aggregateTracker) *GormDispatchQueueRepository {
	return &GormDispatchQueueRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new queue entry. A live entry already covering the order
// violates the partial unique index and maps to ErrAlreadyQueued.
func (r *GormDispatchQueueRepository) Add(ctx context.Context, aggregate *queue.Entry) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ports.ErrAlreadyQueued
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing entry, guarded by the version it was loaded at.
// Zero affected rows means somebody else moved the entry first and maps to
// ErrEntryNotAvailable; the caller's read is stale.
func (r *GormDispatchQueueRepository) Update(ctx context.Context, aggregate *queue.Entry) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&EntryDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(map[string]any{
			"status":      dto.Status,
			"courier_id":  dto.CourierID,
			"attempts":    dto.Attempts,
			"expires_at":  dto.ExpiresAt,
			"enqueued_at": dto.EnqueuedAt,
			"version":     gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ports.ErrCourierEngaged
		}
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ports.ErrEntryNotAvailable
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a queue entry by ID.
func (r *GormDispatchQueueRepository) Get(ctx context.Context, id kernel.UUID) (*queue.Entry, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto EntryDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("dispatch entry", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetLiveByOrder retrieves the order's Queued or Offered entry, if any.
func (r *GormDispatchQueueRepository) GetLiveByOrder(ctx context.Context, orderID kernel.UUID) (*queue.Entry, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto EntryDTO
	err := r.db.WithContext(ctx).
		First(&dto, "order_id = ? AND status IN (?, ?)",
			orderID.Bytes(), int(queue.StatusQueued), int(queue.StatusOffered)).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("live dispatch entry for order", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAssignedByOrder retrieves the order's Assigned entry, if any.
func (r *GormDispatchQueueRepository) GetAssignedByOrder(ctx context.Context, orderID kernel.UUID) (*queue.Entry, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto EntryDTO
	err := r.db.WithContext(ctx).
		First(&dto, "order_id = ? AND status = ?", orderID.Bytes(), int(queue.StatusAssigned)).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("assigned dispatch entry for order", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetOldestQueued retrieves the Queued entry that has waited longest.
func (r *GormDispatchQueueRepository) GetOldestQueued(ctx context.Context) (*queue.Entry, error) {
	var dto EntryDTO
	err := r.db.WithContext(ctx).
		Where("status = ?", int(queue.StatusQueued)).
		Order("enqueued_at").
		First(&dto).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("queued dispatch entry", "oldest")
		}
		return nil, err
	}

	return toDomain(dto)
}

// ClaimForOffer atomically moves the entry from Queued to Offered for the
// given courier. The WHERE clause on the Queued status is what makes
// concurrent claims safe: whoever updates the row first wins, every other
// claimer affects zero rows and gets ErrEntryNotAvailable. Claiming a
// courier who concurrently picked up another offer trips the engaged-courier
// index and maps to ErrCourierEngaged; the savepoint keeps the surrounding
// transaction usable so the caller can try the next candidate.
func (r *GormDispatchQueueRepository) ClaimForOffer(
	ctx context.Context,
	entryID kernel.UUID,
	courierID kernel.UUID,
	expiresAt time.Time,
) (*queue.Entry, error) {
	if err := entryID.Validate(); err != nil {
		return nil, err
	}
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	db := r.db.WithContext(ctx)
	db.SavePoint("claim_for_offer")

	result := db.
		Model(&EntryDTO{}).
		Where("id = ? AND status = ?", entryID.Bytes(), int(queue.StatusQueued)).
		Updates(map[string]any{
			"status":     int(queue.StatusOffered),
			"courier_id": courierID.Bytes(),
			"expires_at": expiresAt,
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			db.RollbackTo("claim_for_offer")
			return nil, ports.ErrCourierEngaged
		}
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		return nil, ports.ErrEntryNotAvailable
	}

	return r.Get(ctx, entryID)
}

// GetExpiredOffers retrieves every Offered entry whose deadline has passed.
func (r *GormDispatchQueueRepository) GetExpiredOffers(ctx context.Context, now time.Time) ([]*queue.Entry, error) {
	var dtos []EntryDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at <= ?", int(queue.StatusOffered), now).
		Order("expires_at").
		Find(&dtos).
		Error
	if err != nil {
		return nil, err
	}

	entries := make([]*queue.Entry, 0, len(dtos))
	for _, dto := range dtos {
		entry, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
