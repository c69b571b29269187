package queue

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	// ErrEntryIsNotConstructed is returned when using an improperly initialized Entry.
	ErrEntryIsNotConstructed = errors.New("Entry must be created via NewEntry constructor")

	// ErrOfferCourierMismatch is returned when an accept or requeue names a
	// courier other than the one holding the current offer. This is the
	// stale-acceptance case: the offer moved on and the caller must be told
	// it lapsed rather than corrupting another courier's offer.
	ErrOfferCourierMismatch = errors.New("courier does not hold the current offer")
)

// Entry represents one outstanding dispatch attempt for exactly one order.
// It is the aggregate root of the dispatch queue: the record that carries
// the offer/accept/reject/timeout protocol state, the rebroadcast attempt
// counter and the offer expiry.
//
// Entry maintains these invariants:
//   - The offered courier reference is present iff the status is Offered or Assigned
//   - Attempts only grow, except for the explicit Reset after a courier cancellation
//   - Status transitions follow the rules encoded in Status; an invalid
//     transition returns ErrInvalidQueueTransition and mutates nothing
//
// The storage layer adds the uniqueness half of the invariants: at most one
// live entry per order, at most one engaged entry per courier.
type Entry struct {
	// id uniquely identifies the queue entry
	id kernel.UUID

	// orderID references the order awaiting assignment (unique among live entries)
	orderID kernel.UUID

	// status is the current protocol state
	status Status

	// courierID is the courier holding the current offer or assignment (nil otherwise)
	courierID *kernel.UUID

	// attempts counts rebroadcasts; 0 on first enqueue
	attempts int

	// expiresAt is the offer deadline while Offered, or the rebroadcast
	// deadline set on requeue
	expiresAt time.Time

	// enqueuedAt orders the queue FIFO; refreshed on every re-enqueue
	enqueuedAt time.Time

	// version is the optimistic-concurrency token as loaded from storage.
	// Every persisted transition is conditional on it, which is what makes
	// the timeout supervisor safe to run in concurrent replicas.
	version int

	// guard ensures the entry was created via a constructor
	guard guard.ConstructorGuard
}

// NewEntry creates a Queued entry for the given order with a zero attempt
// counter. Called when an order enters ReadyForPickup.
func NewEntry(id kernel.UUID, orderID kernel.UUID, enqueuedAt time.Time) (*Entry, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	return &Entry{
		id:         id,
		orderID:    orderID,
		status:     StatusQueued,
		enqueuedAt: enqueuedAt,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// RestoreEntry reconstructs an Entry aggregate from persistent storage.
// The courier/status consistency invariant is re-checked so corrupted rows
// are rejected at the persistence boundary.
func RestoreEntry(
	id kernel.UUID,
	orderID kernel.UUID,
	status Status,
	courierID *kernel.UUID,
	attempts int,
	expiresAt time.Time,
	enqueuedAt time.Time,
	version int,
) (*Entry, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	if status.IsEngaged() != (courierID != nil) {
		return nil, ErrInvalidQueueTransition
	}

	e, err := NewEntry(id, orderID, enqueuedAt)
	if err != nil {
		return nil, err
	}

	e.status = status
	e.courierID = courierID
	e.attempts = attempts
	e.expiresAt = expiresAt
	e.version = version
	return e, nil
}

// Validate ensures the Entry instance was properly constructed.
func (e *Entry) Validate() error {
	if e == nil {
		return ErrEntryIsNotConstructed
	}

	return e.guard.Validate(ErrEntryIsNotConstructed)
}

// IsEqual compares two entries by their unique identifiers.
func (e *Entry) IsEqual(other *Entry) bool {
	return other != nil && e.id.IsEqual(other.id)
}

// ID returns the entry's unique identifier.
func (e *Entry) ID() kernel.UUID {
	return e.id
}

// OrderID returns the identifier of the order awaiting assignment.
func (e *Entry) OrderID() kernel.UUID {
	return e.orderID
}

// Status returns the current protocol state.
func (e *Entry) Status() Status {
	return e.status
}

// Courier returns the courier holding the current offer or assignment,
// or nil when the entry is not engaged.
func (e *Entry) Courier() *kernel.UUID {
	return e.courierID
}

// Attempts returns the rebroadcast counter.
func (e *Entry) Attempts() int {
	return e.attempts
}

// ExpiresAt returns the current offer or rebroadcast deadline.
func (e *Entry) ExpiresAt() time.Time {
	return e.expiresAt
}

// EnqueuedAt returns the FIFO ordering instant, refreshed on re-enqueue.
func (e *Entry) EnqueuedAt() time.Time {
	return e.enqueuedAt
}

// Version returns the optimistic-concurrency token as loaded from storage.
func (e *Entry) Version() int {
	return e.version
}

// IsExpired reports whether the offer deadline has passed at the given instant.
func (e *Entry) IsExpired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Offer moves the entry from Queued to Offered for the given courier with
// the given offer deadline.
func (e *Entry) Offer(courierID kernel.UUID, expiresAt time.Time) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	newStatus, err := e.status.Offer()
	if err != nil {
		return err
	}

	e.status = newStatus
	e.courierID = &courierID
	e.expiresAt = expiresAt
	return nil
}

// ConfirmAssignment moves the entry from Offered to Assigned.
// The courier must be the one holding the offer; otherwise
// ErrOfferCourierMismatch is returned and nothing changes.
func (e *Entry) ConfirmAssignment(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	if e.courierID == nil || !e.courierID.IsEqual(courierID) {
		return ErrOfferCourierMismatch
	}

	newStatus, err := e.status.Accept()
	if err != nil {
		return err
	}

	e.status = newStatus
	return nil
}

// Requeue returns an Offered entry to Queued after a rejection or an expired
// offer: the courier is released, the attempt counter grows by one and the
// FIFO position is refreshed. When maxAttempts is positive and the counter
// reaches it, the entry becomes Exhausted instead of rebroadcasting forever.
func (e *Entry) Requeue(now time.Time, expiresAt time.Time, maxAttempts int) error {
	if maxAttempts > 0 && e.attempts+1 >= maxAttempts {
		newStatus, err := e.status.Exhaust()
		if err != nil {
			return err
		}

		e.status = newStatus
		e.courierID = nil
		e.attempts++
		return nil
	}

	newStatus, err := e.status.Requeue()
	if err != nil {
		return err
	}

	e.status = newStatus
	e.courierID = nil
	e.attempts++
	e.expiresAt = expiresAt
	e.enqueuedAt = now
	return nil
}

// Reset re-queues the entry after a courier cancellation with the attempt
// counter cleared, so the order gets a full rebroadcast window again.
func (e *Entry) Reset(now time.Time) error {
	newStatus, err := e.status.Reset()
	if err != nil {
		return err
	}

	e.status = newStatus
	e.courierID = nil
	e.attempts = 0
	e.expiresAt = time.Time{}
	e.enqueuedAt = now
	return nil
}

// Cancel terminally cancels a live entry (order cancelled before
// assignment completed).
func (e *Entry) Cancel() error {
	newStatus, err := e.status.Cancel()
	if err != nil {
		return err
	}

	e.status = newStatus
	e.courierID = nil
	return nil
}

// Complete archives an Assigned entry once the order is picked up and
// leaves the dispatch-relevant state set.
func (e *Entry) Complete() error {
	newStatus, err := e.status.Complete()
	if err != nil {
		return err
	}

	e.status = newStatus
	e.courierID = nil
	return nil
}
