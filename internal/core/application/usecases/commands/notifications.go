package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// Notifications are built while the transaction is open but sent only after
// a successful commit: a rolled-back transition must not leak events, and a
// failed notification must not fail the transition (the notifier itself is
// fire-and-forget).

func customerNotification(ord *order.Order, event ports.EventName, courierID *kernel.UUID, message string) ports.Notification {
	return ports.Notification{
		Event:       event,
		Audience:    ports.AudienceCustomer,
		Recipient:   ord.Customer(),
		OrderID:     ord.ID(),
		OrderNumber: ord.OrderNumber(),
		CourierID:   courierID,
		Message:     message,
		Timestamp:   time.Now(),
	}
}

func vendorNotification(ord *order.Order, event ports.EventName, courierID *kernel.UUID, message string) ports.Notification {
	return ports.Notification{
		Event:       event,
		Audience:    ports.AudienceVendor,
		Recipient:   ord.Vendor(),
		OrderID:     ord.ID(),
		OrderNumber: ord.OrderNumber(),
		CourierID:   courierID,
		Message:     message,
		Timestamp:   time.Now(),
	}
}

func operationsNotification(ord *order.Order, event ports.EventName, message string) ports.Notification {
	return ports.Notification{
		Event:       event,
		Audience:    ports.AudienceOperations,
		OrderID:     ord.ID(),
		OrderNumber: ord.OrderNumber(),
		Message:     message,
		Timestamp:   time.Now(),
	}
}

func send(ctx context.Context, notifier ports.Notifier, notifications []ports.Notification) {
	if notifier == nil {
		return
	}
	for _, n := range notifications {
		notifier.Notify(ctx, n)
	}
}
