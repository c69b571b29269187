package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/queue"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// CourierCancelCommandHandler recovers from a mid-delivery cancellation:
// the order returns to ReadyForPickup with the courier reference cleared
// and the reason recorded, the courier is freed immediately with no
// cooldown, the queue entry is re-queued with the attempt counter reset to
// zero, and a fresh match is attempted in the same transaction.
type CourierCancelCommandHandler struct {
	uowFactory UoWFactory
	matcher    Matcher
	notifier   ports.Notifier
}

// NewCourierCancelCommandHandler creates a handler for courier cancellations.
func NewCourierCancelCommandHandler(
	uowFactory UoWFactory,
	matcher Matcher,
	notifier ports.Notifier,
) CourierCancelCommandHandler {
	return CourierCancelCommandHandler{
		uowFactory: uowFactory,
		matcher:    matcher,
		notifier:   notifier,
	}
}

// Handle processes the cancellation. Replaying it after the courier was
// already detached fails with the courier mismatch outcome and mutates
// nothing.
func (h CourierCancelCommandHandler) Handle(ctx context.Context, command CourierCancelCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	return runWithRetry(ctx, func(ctx context.Context) error {
		return h.handle(ctx, command)
	})
}

func (h CourierCancelCommandHandler) handle(ctx context.Context, command CourierCancelCommand) error {
	now := time.Now()

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

	if err = ord.CancelByCourier(command.CourierID(), command.Reason(), now); err != nil {
		return err
	}

	c, err := uow.CourierRepository().Get(ctx, command.CourierID())
	if err != nil {
		return err
	}

	// Freed immediately: a courier who handed the order back should not
	// sit out a delivery cooldown.
	c.ClearCooldown()
	if err = uow.CourierRepository().Update(ctx, c); err != nil {
		return err
	}

	entry, err := h.requeueEntry(ctx, uow, command.OrderID(), now)
	if err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, ord); err != nil {
		return err
	}

	if _, err = h.matcher.MatchEntry(ctx, uow, entry, ord); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	message := fmt.Sprintf("rider dropped order %s, reassignment in progress", ord.OrderNumber())
	send(ctx, h.notifier, []ports.Notification{
		customerNotification(ord, ports.EventOrderReassigned, nil, message),
		vendorNotification(ord, ports.EventOrderReassigned, nil, message),
	})
	return nil
}

// requeueEntry returns the order's dispatch entry to Queued with a full
// rebroadcast window. Cancellations after pickup find the entry already
// archived and get a fresh one.
func (h CourierCancelCommandHandler) requeueEntry(
	ctx context.Context,
	uow UoW,
	orderID kernel.UUID,
	now time.Time,
) (*queue.Entry, error) {
	entry, err := uow.QueueRepository().GetAssignedByOrder(ctx, orderID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		entry, err = queue.NewEntry(kernel.NewUUID(), orderID, now)
		if err != nil {
			return nil, err
		}

		if err = uow.QueueRepository().Add(ctx, entry); err != nil {
			return nil, err
		}
		return entry, nil
	}
	if err != nil {
		return nil, err
	}

	if err = entry.Reset(now); err != nil {
		return nil, err
	}

	if err = uow.QueueRepository().Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}
