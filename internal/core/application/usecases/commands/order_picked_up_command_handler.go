package commands

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// OrderPickedUpCommandHandler moves the order from Assigned to PickedUp and
// archives its queue entry: pickup is the point where the order leaves the
// dispatch-relevant state set.
type OrderPickedUpCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
}

// NewOrderPickedUpCommandHandler creates a handler for pickup events.
func NewOrderPickedUpCommandHandler(uowFactory UoWFactory, notifier ports.Notifier) OrderPickedUpCommandHandler {
	return OrderPickedUpCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the pickup event. A replayed pickup by the same courier
// is a no-op.
func (h OrderPickedUpCommandHandler) Handle(ctx context.Context, command OrderPickedUpCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	return runWithRetry(ctx, func(ctx context.Context) error {
		return h.handle(ctx, command)
	})
}

func (h OrderPickedUpCommandHandler) handle(ctx context.Context, command OrderPickedUpCommand) error {
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

	if ord.Status() == order.PickedUp && ord.Courier() != nil && ord.Courier().IsEqual(command.CourierID()) {
		return nil
	}

	if err = ord.PickUp(command.CourierID()); err != nil {
		return err
	}

	entry, err := uow.QueueRepository().GetAssignedByOrder(ctx, command.OrderID())
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}
	if err == nil {
		if err = entry.Complete(); err != nil {
			return err
		}

		if err = uow.QueueRepository().Update(ctx, entry); err != nil {
			return err
		}
	}

	if err = uow.OrderRepository().Update(ctx, ord); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	courierID := command.CourierID()
	message := fmt.Sprintf("order %s picked up", ord.OrderNumber())
	send(ctx, h.notifier, []ports.Notification{
		customerNotification(ord, ports.EventOrderPickedUp, &courierID, message),
		vendorNotification(ord, ports.EventOrderPickedUp, &courierID, message),
	})
	return nil
}
