package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the delivery-relevant lifecycle state of an order.
// It implements a state machine with defined transitions so orders follow
// the correct dispatch workflow.
//
// State transitions:
//
//	ReadyForPickup ──> Assigned ──> PickedUp ──> OutForDelivery ──> Delivered
//	      ▲                │            │               │
//	      └────────────────┴────────────┴───────────────┘
//	            (courier cancellation re-queues the order)
//
// A separate terminal Cancelled state exists for vendor/customer/ops
// cancellations; it never re-enters dispatch.
//
// Status is a value object that validates state transitions and provides
// string representations for persistence and display.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// ReadyForPickup is the initial dispatch-eligible status, set once the
	// vendor marks the order ready. Orders in this status are waiting for a
	// courier assignment and must have no courier reference.
	ReadyForPickup

	// Assigned indicates a courier accepted the offer for this order.
	Assigned

	// PickedUp indicates the assigned courier collected the order from the vendor.
	PickedUp

	// OutForDelivery indicates the courier is en route to the customer.
	OutForDelivery

	// Delivered indicates the order reached the customer. Terminal.
	Delivered

	// Cancelled indicates a terminal cancellation by vendor, customer or
	// operations. Courier-initiated cancellations do not use this status;
	// they return the order to ReadyForPickup instead.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "Unknown",
		ReadyForPickup: "ReadyForPickup",
		Assigned:       "Assigned",
		PickedUp:       "PickedUp",
		OutForDelivery: "OutForDelivery",
		Delivered:      "Delivered",
		Cancelled:      "Cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		ReadyForPickup: "ReadyForPickup",
		Assigned:       "Assigned",
		PickedUp:       "PickedUp",
		OutForDelivery: "OutForDelivery",
		Delivered:      "Delivered",
		Cancelled:      "Cancelled",
	}
}

// Validate checks if the Status value is one of the defined statuses.
// Unknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// Returns "Unknown" for invalid status values. Implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsActive reports whether the status represents a live courier engagement.
// Active statuses are Assigned, PickedUp and OutForDelivery; exactly these
// statuses require a courier reference on the order.
func (s Status) IsActive() bool {
	return s == Assigned || s == PickedUp || s == OutForDelivery
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// ValidateAssign checks if the status allows courier assignment without
// performing the transition. Only ReadyForPickup orders may be assigned.
func (s Status) ValidateAssign() error {
	if s != ReadyForPickup {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to assign", s.String()),
		)
	}
	return nil
}

// ValidateCanHaveCourier validates the consistency between order status and
// courier assignment: active orders must have a courier, all others must not.
func (s Status) ValidateCanHaveCourier(courier bool) error {
	if courier && !s.IsActive() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a courier", s.String()),
		)
	}

	if !courier && s.IsActive() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no courier", s.String()),
		)
	}

	return nil
}

// Assign transitions the status to Assigned.
//
// Valid transitions:
//   - ReadyForPickup -> Assigned (offer accepted)
func (s Status) Assign() (Status, error) {
	if err := s.ValidateAssign(); err != nil {
		return 0, err
	}

	return Assigned, nil
}

// PickUp transitions the status to PickedUp.
//
// Valid transitions:
//   - Assigned -> PickedUp (courier collected the order)
func (s Status) PickUp() (Status, error) {
	if s != Assigned {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to pick up", s.String()),
		)
	}

	return PickedUp, nil
}

// StartDelivery transitions the status to OutForDelivery.
//
// Valid transitions:
//   - PickedUp -> OutForDelivery (courier left the vendor)
func (s Status) StartDelivery() (Status, error) {
	if s != PickedUp {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to start delivery", s.String()),
		)
	}

	return OutForDelivery, nil
}

// Deliver transitions the status to Delivered.
//
// Valid transitions:
//   - PickedUp -> Delivered (delivery confirmed before the out-for-delivery ping arrived)
//   - OutForDelivery -> Delivered
func (s Status) Deliver() (Status, error) {
	if s != PickedUp && s != OutForDelivery {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to deliver", s.String()),
		)
	}

	return Delivered, nil
}

// CancelByCourier transitions an active status back to ReadyForPickup.
// This is the recoverable cancellation path: the order still has to be
// delivered, so it re-enters dispatch instead of terminating.
//
// Valid transitions:
//   - Assigned/PickedUp/OutForDelivery -> ReadyForPickup
func (s Status) CancelByCourier() (Status, error) {
	if !s.IsActive() {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status for a courier cancellation", s.String()),
		)
	}

	return ReadyForPickup, nil
}

// Cancel transitions the status to the terminal Cancelled state.
// Any non-terminal status may be cancelled by vendor, customer or operations.
func (s Status) Cancel() (Status, error) {
	if s.IsTerminal() {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to cancel", s.String()),
		)
	}

	return Cancelled, nil
}
