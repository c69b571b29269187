package commands

import (
	"context"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// OrderDeliveredCommandHandler completes the delivery: the order becomes
// Delivered and the courier enters a cooldown window before re-entering the
// available pool. The cooldown avoids re-offering to a courier still
// wrapping up the trip; it is persisted as a due-at timestamp so a restart
// does not lose it.
type OrderDeliveredCommandHandler struct {
	uowFactory UoWFactory
	cooldown   time.Duration
	notifier   ports.Notifier
}

// NewOrderDeliveredCommandHandler creates a handler for delivery completion.
func NewOrderDeliveredCommandHandler(
	uowFactory UoWFactory,
	cooldown time.Duration,
	notifier ports.Notifier,
) OrderDeliveredCommandHandler {
	return OrderDeliveredCommandHandler{
		uowFactory: uowFactory,
		cooldown:   cooldown,
		notifier:   notifier,
	}
}

// Handle processes the delivery event. A replayed delivery is a no-op and
// does not extend the courier's cooldown.
func (h OrderDeliveredCommandHandler) Handle(ctx context.Context, command OrderDeliveredCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	return runWithRetry(ctx, func(ctx context.Context) error {
		return h.handle(ctx, command)
	})
}

func (h OrderDeliveredCommandHandler) handle(ctx context.Context, command OrderDeliveredCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ord, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return err
	}

	if ord.Status() == order.Delivered {
		return nil
	}

	if err = ord.Deliver(command.CourierID()); err != nil {
		return err
	}

	c, err := uow.CourierRepository().Get(ctx, command.CourierID())
	if err != nil {
		return err
	}

	c.BeginCooldown(time.Now().Add(h.cooldown))
	if err = uow.CourierRepository().Update(ctx, c); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, ord); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	courierID := command.CourierID()
	message := fmt.Sprintf("order %s delivered", ord.OrderNumber())
	send(ctx, h.notifier, []ports.Notification{
		customerNotification(ord, ports.EventOrderDelivered, &courierID, message),
		vendorNotification(ord, ports.EventOrderDelivered, &courierID, message),
	})
	return nil
}
