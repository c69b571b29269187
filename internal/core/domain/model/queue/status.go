package queue

import (
	"errors"
	"fmt"
)

// ErrInvalidQueueTransition is returned when a queue entry transition is
// attempted from a status that does not allow it. The entry is left
// untouched; callers treat this as an invariant violation, not a retryable
// contention error.
var ErrInvalidQueueTransition = errors.New("invalid queue transition")

// Status represents the lifecycle state of a dispatch queue entry.
//
// State transitions:
//
//	Queued ──> Offered ──> Assigned ──> Completed
//	   ▲          │            │
//	   └──────────┘            │ (courier cancellation resets the entry)
//	 (reject/expiry,           ▼
//	  attempts+1)           Queued
//
//	Queued/Offered/Assigned ──> Cancelled   (order terminally cancelled)
//	Offered                 ──> Exhausted   (rebroadcast attempt cap reached)
//
// An expired offer is not a resting state: the timeout supervisor moves the
// entry straight back to Queued with the attempt counter incremented, so no
// separate Expired status exists.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusQueued means the order is waiting for a courier offer.
	StatusQueued

	// StatusOffered means one courier holds a pending offer for the order.
	StatusOffered

	// StatusAssigned means the offered courier accepted; the entry stays in
	// this status until the order is picked up and leaves dispatch.
	StatusAssigned

	// StatusCancelled means the order was cancelled before assignment
	// completed. Terminal.
	StatusCancelled

	// StatusExhausted means the rebroadcast attempt cap was reached.
	// Terminal; raised to operations instead of rebroadcasting forever.
	StatusExhausted

	// StatusCompleted means the order was picked up and the entry is
	// archived out of the live dispatch set. Terminal.
	StatusCompleted
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:   "Unknown",
		StatusQueued:    "Queued",
		StatusOffered:   "Offered",
		StatusAssigned:  "Assigned",
		StatusCancelled: "Cancelled",
		StatusExhausted: "Exhausted",
		StatusCompleted: "Completed",
	}
}

// Validate checks if the Status value is one of the defined statuses.
func (s Status) Validate() error {
	if s == StatusUnknown {
		return fmt.Errorf("%w: %d is not a valid queue status", ErrInvalidQueueTransition, s)
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return fmt.Errorf("%w: %d is not a valid queue status", ErrInvalidQueueTransition, s)
	}
	return nil
}

// String returns the human-readable name of the status. Implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsLive reports whether the entry still needs dispatch work.
// An order has at most one live entry at any time.
func (s Status) IsLive() bool {
	return s == StatusQueued || s == StatusOffered
}

// IsEngaged reports whether the entry ties up a courier.
// A courier has at most one engaged entry at any time.
func (s Status) IsEngaged() bool {
	return s == StatusOffered || s == StatusAssigned
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusExhausted || s == StatusCompleted
}

func (s Status) transition(from Status, to Status, op string) (Status, error) {
	if s != from {
		return 0, fmt.Errorf("%w: cannot %s from %s", ErrInvalidQueueTransition, op, s.String())
	}
	return to, nil
}

// Offer transitions Queued -> Offered.
func (s Status) Offer() (Status, error) {
	return s.transition(StatusQueued, StatusOffered, "offer")
}

// Accept transitions Offered -> Assigned.
func (s Status) Accept() (Status, error) {
	return s.transition(StatusOffered, StatusAssigned, "accept")
}

// Requeue transitions Offered -> Queued (rejection or expiry).
func (s Status) Requeue() (Status, error) {
	return s.transition(StatusOffered, StatusQueued, "requeue")
}

// Reset transitions Offered or Assigned -> Queued (courier cancellation).
func (s Status) Reset() (Status, error) {
	if s != StatusOffered && s != StatusAssigned {
		return 0, fmt.Errorf("%w: cannot reset from %s", ErrInvalidQueueTransition, s.String())
	}
	return StatusQueued, nil
}

// Cancel transitions Queued, Offered or Assigned -> Cancelled (the order was
// terminally cancelled before it left dispatch).
func (s Status) Cancel() (Status, error) {
	if !s.IsLive() && s != StatusAssigned {
		return 0, fmt.Errorf("%w: cannot cancel from %s", ErrInvalidQueueTransition, s.String())
	}
	return StatusCancelled, nil
}

// Exhaust transitions Offered -> Exhausted (attempt cap reached on requeue).
func (s Status) Exhaust() (Status, error) {
	return s.transition(StatusOffered, StatusExhausted, "exhaust")
}

// Complete transitions Assigned -> Completed (order picked up).
func (s Status) Complete() (Status, error) {
	return s.transition(StatusAssigned, StatusCompleted, "complete")
}
