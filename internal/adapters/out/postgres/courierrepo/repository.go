package courierrepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/queue"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// Availability is derived, never stored: online, past the cooldown gate and
// not engaged anywhere. The engagement checks look at both the dispatch
// queue (a pending offer blocks new offers) and the orders table (an active
// delivery blocks new offers).
const availableCondition = `
	is_online
	AND available_after <= ?
	AND NOT EXISTS (
		SELECT 1 FROM dispatch_entries e
		WHERE e.courier_id = couriers.id AND e.status IN (?, ?)
	)
	AND NOT EXISTS (
		SELECT 1 FROM orders o
		WHERE o.courier_id = couriers.id AND o.status IN (?, ?, ?)
	)`

// GormCourierRepository implements CourierRepository using GORM.
type GormCourierRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormCourierRepository creates a new GORM courier repository.
func NewGormCourierRepository(db *gorm.DB, tracker aggregateTracker) *GormCourierRepository {
	return &GormCourierRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new courier to the database.
func (r *GormCourierRepository) Add(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing courier to the database. Writes every column so
// a presence flip to offline (a zero value) is persisted.
func (r *GormCourierRepository) Update(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&CourierDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a courier by ID.
func (r *GormCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CourierDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllAvailable retrieves every courier eligible for an offer at the
// given instant, longest-idle first.
func (r *GormCourierRepository) GetAllAvailable(ctx context.Context, now time.Time) ([]*courier.Courier, error) {
	var dtos []CourierDTO
	err := r.db.WithContext(ctx).
		Where(availableCondition, availableArgs(now)...).
		Order("available_after, id").
		Find(&dtos).
		Error
	if err != nil {
		return nil, err
	}

	couriers := make([]*courier.Courier, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		couriers = append(couriers, c)
	}

	return couriers, nil
}

// IsAvailable reports whether one specific courier is eligible for an offer
// at the given instant.
func (r *GormCourierRepository) IsAvailable(ctx context.Context, id kernel.UUID, now time.Time) (bool, error) {
	if err := id.Validate(); err != nil {
		return false, err
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&CourierDTO{}).
		Where("id = ?", id.Bytes()).
		Where(availableCondition, availableArgs(now)...).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func availableArgs(now time.Time) []any {
	return []any{
		now,
		int(queue.StatusOffered), int(queue.StatusAssigned),
		int(order.Assigned), int(order.PickedUp), int(order.OutForDelivery),
	}
}
