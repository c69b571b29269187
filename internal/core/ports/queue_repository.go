package ports

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/queue"
)

var (
	// ErrAlreadyQueued is returned by Add when the order already has a live
	// (Queued or Offered) entry. At-least-once event delivery makes this an
	// expected duplicate, not a failure.
	ErrAlreadyQueued = errors.New("order already has a live queue entry")

	// ErrEntryNotAvailable is returned when a conditional write observes the
	// entry in a different state than expected: another actor claimed,
	// requeued or closed it first. Expected under concurrency.
	ErrEntryNotAvailable = errors.New("queue entry is not in the expected state")

	// ErrCourierEngaged is returned when persisting an offer or assignment
	// would give a courier a second live engagement. Expected under
	// concurrency; the matcher moves on to the next candidate.
	ErrCourierEngaged = errors.New("courier already holds a live offer or assignment")
)

// DispatchQueueRepository defines the persistence contract for dispatch
// queue entries. The conditional operations are the storage half of the
// no-double-assignment guarantee: each one is a single guarded update that
// either observes the expected current state and commits the transition, or
// changes nothing and reports why.
type DispatchQueueRepository interface {
	// Add persists a new entry. Fails with ErrAlreadyQueued when the order
	// already has a live entry (unique-constraint backed).
	Add(ctx context.Context, aggregate *queue.Entry) error

	// Update persists changes to an existing entry, guarded by the entry's
	// version: when a concurrent actor moved the entry first the write
	// affects nothing and ErrEntryNotAvailable is returned. Offers and
	// assignments surface ErrCourierEngaged when the courier-side
	// uniqueness constraint rejects the write.
	Update(ctx context.Context, aggregate *queue.Entry) error

	// Get retrieves an entry by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*queue.Entry, error)

	// GetLiveByOrder retrieves the order's live (Queued or Offered) entry,
	// or an ObjectNotFound error when none exists.
	GetLiveByOrder(ctx context.Context, orderID kernel.UUID) (*queue.Entry, error)

	// GetAssignedByOrder retrieves the order's Assigned entry, or an
	// ObjectNotFound error when none exists. Used when the order leaves
	// dispatch (pickup) or the assignment is torn down (cancellation).
	GetAssignedByOrder(ctx context.Context, orderID kernel.UUID) (*queue.Entry, error)

	// GetOldestQueued retrieves the Queued entry with the oldest
	// enqueue/re-enqueue time, or an ObjectNotFound error when the queue is
	// empty.
	GetOldestQueued(ctx context.Context) (*queue.Entry, error)

	// ClaimForOffer atomically moves the entry from Queued to Offered for
	// the given courier as one conditional update. Returns
	// ErrEntryNotAvailable when the entry is no longer Queued and
	// ErrCourierEngaged when the courier already holds a live engagement.
	ClaimForOffer(ctx context.Context, entryID kernel.UUID, courierID kernel.UUID, expiresAt time.Time) (*queue.Entry, error)

	// GetExpiredOffers retrieves all Offered entries whose expiry has passed
	// at the given instant.
	GetExpiredOffers(ctx context.Context, now time.Time) ([]*queue.Entry, error)
}
