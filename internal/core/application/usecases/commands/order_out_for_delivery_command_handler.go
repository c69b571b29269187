package commands

import (
	"context"
	"fmt"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// OrderOutForDeliveryCommandHandler moves the order from PickedUp to
// OutForDelivery. Dispatch bookkeeping ended at pickup, so only the order
// itself changes.
type OrderOutForDeliveryCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.Notifier
}

// NewOrderOutForDeliveryCommandHandler creates a handler for departure events.
func NewOrderOutForDeliveryCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.Notifier,
) OrderOutForDeliveryCommandHandler {
	return OrderOutForDeliveryCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the departure event. Replays by the same courier are no-ops.
func (h OrderOutForDeliveryCommandHandler) Handle(ctx context.Context, command OrderOutForDeliveryCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	return runWithRetry(ctx, func(ctx context.Context) error {
		return h.handle(ctx, command)
	})
}

func (h OrderOutForDeliveryCommandHandler) handle(ctx context.Context, command OrderOutForDeliveryCommand) error {
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

	if ord.Status() == order.OutForDelivery && ord.Courier() != nil && ord.Courier().IsEqual(command.CourierID()) {
		return nil
	}

	if err = ord.StartDelivery(command.CourierID()); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, ord); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	courierID := command.CourierID()
	send(ctx, h.notifier, []ports.Notification{
		customerNotification(ord, ports.EventOrderOutForDelivery, &courierID,
			fmt.Sprintf("order %s is on its way", ord.OrderNumber())),
	})
	return nil
}
