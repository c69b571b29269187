package order

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrCourierMismatch is returned when an operation names a courier other than
	// the one currently assigned to the order. A stale mobile-client action on a
	// reassigned order is the usual source.
	ErrCourierMismatch = errors.New("courier is not assigned to this order")

	// ErrOrderNumberIsRequired is returned when attempting to create an order
	// without its human-facing order number.
	ErrOrderNumberIsRequired = errs.NewValueIsRequiredError("orderNumber")
)

// Order represents one delivery job. It is the aggregate root that drives the
// delivery-relevant lifecycle from ReadyForPickup through assignment to the
// terminal Delivered or Cancelled states.
//
// Order maintains these invariants:
//   - Must have valid unique, vendor and customer identifiers
//   - A courier reference is present iff the status is Assigned, PickedUp or OutForDelivery
//   - Status transitions follow the rules encoded in Status
//   - Can only be created through NewOrder or RestoreOrder
//
// Orders are never deleted; they only reach a terminal status. All mutation
// goes through the dispatch orchestration handlers.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// orderNumber is the human-facing order reference used in notifications
	orderNumber string

	// vendorID references the vendor preparing the order
	vendorID kernel.UUID

	// customerID references the customer awaiting the order
	customerID kernel.UUID

	// courierID is the assigned courier's ID (nil while unassigned)
	courierID *kernel.UUID

	// status represents the current state in the delivery lifecycle
	status Status

	// cancellationReason records why the last cancellation happened ("" if never cancelled)
	cancellationReason string

	// createdAt is when the order entered dispatch
	createdAt time.Time

	// cancelledAt is when the last cancellation happened (nil if never cancelled)
	cancelledAt *time.Time

	// guard ensures the order was created via a constructor
	guard guard.ConstructorGuard
}

// NewOrder creates a new Order in ReadyForPickup status with no courier
// assigned. This is how the order-fulfillment flow hands an order over to
// dispatch once the vendor marks it ready.
//
// Parameters:
//   - id: unique identifier for the order
//   - orderNumber: human-facing order reference (must be non-empty)
//   - vendorID: the vendor preparing the order
//   - customerID: the customer awaiting the order
//   - createdAt: when the order entered dispatch
//
// Returns a validation error if any identifier is invalid or the order
// number is empty.
func NewOrder(
	id kernel.UUID,
	orderNumber string,
	vendorID kernel.UUID,
	customerID kernel.UUID,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		status:    ReadyForPickup,
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setOrderNumber(orderNumber),
		o.setVendorID(vendorID),
		o.setCustomerID(customerID),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an Order aggregate from persistent storage,
// including its status, courier assignment and cancellation bookkeeping.
// The restored order behaves identically to one built through domain
// operations; the status/courier consistency invariant is re-checked so
// corrupted rows are rejected at the persistence boundary.
func RestoreOrder(
	id kernel.UUID,
	orderNumber string,
	vendorID kernel.UUID,
	customerID kernel.UUID,
	status Status,
	courierID *kernel.UUID,
	cancellationReason string,
	createdAt time.Time,
	cancelledAt *time.Time,
) (*Order, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	if err := status.ValidateCanHaveCourier(courierID != nil); err != nil {
		return nil, err
	}

	o, err := NewOrder(id, orderNumber, vendorID, customerID, createdAt)
	if err != nil {
		return nil, err
	}

	o.status = status
	o.courierID = courierID
	o.cancellationReason = cancellationReason
	o.cancelledAt = cancelledAt
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
// Returns ErrOrderIsNotConstructed for zero-value instances.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}

	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// OrderNumber returns the human-facing order reference.
func (o *Order) OrderNumber() string {
	return o.orderNumber
}

// Vendor returns the vendor's identifier.
func (o *Order) Vendor() kernel.UUID {
	return o.vendorID
}

// Customer returns the customer's identifier.
func (o *Order) Customer() kernel.UUID {
	return o.customerID
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// Courier returns the assigned courier's ID, or nil if no courier is assigned.
func (o *Order) Courier() *kernel.UUID {
	return o.courierID
}

// CancellationReason returns why the last cancellation happened, or "" if
// the order was never cancelled.
func (o *Order) CancellationReason() string {
	return o.cancellationReason
}

// CreatedAt returns when the order entered dispatch.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// CancelledAt returns when the last cancellation happened, or nil.
func (o *Order) CancelledAt() *time.Time {
	return o.cancelledAt
}

// ValidateAssign checks whether the order may be assigned without mutating it.
func (o *Order) ValidateAssign() error {
	return o.status.ValidateAssign()
}

// Assign assigns the order to a courier and moves it to Assigned.
// The order must be in ReadyForPickup status and the courier ID must be valid.
func (o *Order) Assign(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.Assign()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.courierID = &courierID
	return nil
}

// PickUp marks the order as collected by its assigned courier.
// Returns ErrCourierMismatch when courierID is not the assigned courier.
func (o *Order) PickUp(courierID kernel.UUID) error {
	if err := o.validateAssignedCourier(courierID); err != nil {
		return err
	}

	newStatus, err := o.status.PickUp()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// StartDelivery marks the order as out for delivery with its assigned courier.
func (o *Order) StartDelivery(courierID kernel.UUID) error {
	if err := o.validateAssignedCourier(courierID); err != nil {
		return err
	}

	newStatus, err := o.status.StartDelivery()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// Deliver marks the order as delivered. Terminal; the courier reference is
// cleared because the engagement has ended.
func (o *Order) Deliver(courierID kernel.UUID) error {
	if err := o.validateAssignedCourier(courierID); err != nil {
		return err
	}

	newStatus, err := o.status.Deliver()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.courierID = nil
	return nil
}

// CancelByCourier handles the recoverable cancellation path: the assigned
// courier abandons the delivery, the order returns to ReadyForPickup with
// the courier reference cleared, and the cancellation is recorded so the
// order can be rebroadcast.
func (o *Order) CancelByCourier(courierID kernel.UUID, reason string, at time.Time) error {
	if err := o.validateAssignedCourier(courierID); err != nil {
		return err
	}

	newStatus, err := o.status.CancelByCourier()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.courierID = nil
	o.cancellationReason = reason
	o.cancelledAt = &at
	return nil
}

// Cancel terminally cancels the order (vendor/customer/ops initiated).
// The courier reference is cleared; a terminally cancelled order never
// re-enters dispatch.
func (o *Order) Cancel(reason string, at time.Time) error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.courierID = nil
	o.cancellationReason = reason
	o.cancelledAt = &at
	return nil
}

// validateAssignedCourier checks that courierID is the currently assigned courier.
func (o *Order) validateAssignedCourier(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	if o.courierID == nil || !o.courierID.IsEqual(courierID) {
		return ErrCourierMismatch
	}

	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setOrderNumber(orderNumber string) error {
	if orderNumber == "" {
		return ErrOrderNumberIsRequired
	}
	o.orderNumber = orderNumber
	return nil
}

func (o *Order) setVendorID(vendorID kernel.UUID) error {
	if err := vendorID.Validate(); err != nil {
		return err
	}
	o.vendorID = vendorID
	return nil
}

func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	o.customerID = customerID
	return nil
}
