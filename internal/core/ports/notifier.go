package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// EventName identifies a dispatch notification event.
type EventName string

// Notification events emitted by the dispatch core.
const (
	EventRiderAssigned        EventName = "rider_assigned"
	EventOrderPickedUp        EventName = "order_picked_up"
	EventOrderOutForDelivery  EventName = "order_out_for_delivery"
	EventOrderDelivered       EventName = "order_delivered"
	EventOrderRejectedByRider EventName = "order_rejected_by_rider"
	EventOrderReassigned      EventName = "order_reassigned"
	EventDispatchSearching    EventName = "dispatch_searching"
	EventDispatchExhausted    EventName = "dispatch_exhausted"
)

// Audience identifies who a notification is addressed to.
type Audience string

// Notification audiences.
const (
	AudienceCustomer   Audience = "customer"
	AudienceVendor     Audience = "vendor"
	AudienceOperations Audience = "operations"
)

// Notification is one outbound event addressed to one audience.
// Recipient identifies the customer or vendor; it is unset for operations.
type Notification struct {
	Event       EventName
	Audience    Audience
	Recipient   kernel.UUID
	OrderID     kernel.UUID
	OrderNumber string
	CourierID   *kernel.UUID
	Message     string
	Timestamp   time.Time
}

// Notifier delivers dispatch events to external observers (customer app,
// vendor app, operations dashboard). Delivery is fire-and-forget: a failed
// or slow notification must never block or fail the state transition that
// produced it, so implementations log failures and return nothing. The
// delivery mechanism (push, socket, polling) is outside the core.
type Notifier interface {
	Notify(ctx context.Context, notification Notification)
}
