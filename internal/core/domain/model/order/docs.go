// Package order provides the Order aggregate and its delivery state machine.
//
// The package includes:
//   - Order: the aggregate root driving one delivery job through its lifecycle
//   - Status: a state machine enforcing valid delivery status transitions
//
// Key business rules:
//   - Orders enter dispatch in ReadyForPickup status with no courier
//   - A courier reference exists iff the order is Assigned, PickedUp or OutForDelivery
//   - A courier cancellation returns the order to ReadyForPickup (recoverable);
//     vendor/customer/ops cancellation is terminal
//   - Delivered and Cancelled are terminal states
//
// All mutation goes through validated methods so the aggregate can never be
// observed in a state that violates these rules.
package order
