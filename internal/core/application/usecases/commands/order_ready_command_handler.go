package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/queue"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// OrderReadyCommandHandler registers an order with dispatch and immediately
// attempts to match it. On a replayed event the handler recognizes the order
// is already known and mutates nothing.
//
// When no courier can take the offer the queue entry stays Queued: the next
// courier-online event or the periodic sweep picks it up.
type OrderReadyCommandHandler struct {
	uowFactory UoWFactory
	matcher    Matcher
	notifier   ports.Notifier
}

// NewOrderReadyCommandHandler creates a handler for order ready events.
func NewOrderReadyCommandHandler(
	uowFactory UoWFactory,
	matcher Matcher,
	notifier ports.Notifier,
) OrderReadyCommandHandler {
	return OrderReadyCommandHandler{
		uowFactory: uowFactory,
		matcher:    matcher,
		notifier:   notifier,
	}
}

// Handle enqueues the order and attempts an immediate match inside one
// transaction. Notifications go out only after the commit.
func (h OrderReadyCommandHandler) Handle(ctx context.Context, command OrderReadyCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	return runWithRetry(ctx, func(ctx context.Context) error {
		return h.handle(ctx, command)
	})
}

func (h OrderReadyCommandHandler) handle(ctx context.Context, command OrderReadyCommand) error {
	now := time.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ord, err := h.loadOrCreateOrder(ctx, uow, command, now)
	if err != nil {
		return err
	}
	if ord == nil {
		// Replayed event for an order already past dispatch intake.
		return nil
	}

	entry, err := h.loadOrCreateEntry(ctx, uow, ord.ID(), now)
	if errors.Is(err, ports.ErrAlreadyQueued) {
		// A concurrent replay enqueued it first.
		return nil
	}
	if err != nil {
		return err
	}

	if entry.Status() == queue.StatusOffered {
		// Already offered to somebody; nothing to do.
		return nil
	}

	if _, err = h.matcher.MatchEntry(ctx, uow, entry, ord); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	send(ctx, h.notifier, []ports.Notification{
		customerNotification(ord, ports.EventDispatchSearching, nil, "looking for a rider"),
		vendorNotification(ord, ports.EventDispatchSearching, nil, "looking for a rider"),
	})
	return nil
}

// loadOrCreateOrder returns the order ready for dispatch, creating it when
// this is the first time dispatch hears about it. Returns (nil, nil) when
// the order exists but already left ReadyForPickup.
func (h OrderReadyCommandHandler) loadOrCreateOrder(
	ctx context.Context,
	uow UoW,
	command OrderReadyCommand,
	now time.Time,
) (*order.Order, error) {
	ord, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		ord, err = order.NewOrder(
			command.OrderID(),
			command.OrderNumber(),
			command.VendorID(),
			command.CustomerID(),
			now,
		)
		if err != nil {
			return nil, err
		}

		if err = uow.OrderRepository().Add(ctx, ord); err != nil {
			return nil, err
		}
		return ord, nil
	}
	if err != nil {
		return nil, err
	}

	if ord.Status() != order.ReadyForPickup {
		return nil, nil
	}
	return ord, nil
}

// loadOrCreateEntry returns the order's live queue entry, creating a fresh
// one when none exists.
func (h OrderReadyCommandHandler) loadOrCreateEntry(
	ctx context.Context,
	uow UoW,
	orderID kernel.UUID,
	now time.Time,
) (*queue.Entry, error) {
	entry, err := uow.QueueRepository().GetLiveByOrder(ctx, orderID)
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
	return entry, nil
}
