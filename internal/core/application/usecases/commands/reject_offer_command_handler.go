package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/queue"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// RejectOfferCommandHandler returns a rejected offer to the queue. The
// courier is freed the moment the entry leaves Offered; rebroadcast happens
// later, on the next courier-online event or the periodic sweep, never
// inline. When the attempt counter reaches the configured cap the entry
// becomes Exhausted and operations is alerted instead.
type RejectOfferCommandHandler struct {
	uowFactory UoWFactory
	config     MatcherConfig
	notifier   ports.Notifier
}

// NewRejectOfferCommandHandler creates a handler for offer rejection.
func NewRejectOfferCommandHandler(
	uowFactory UoWFactory,
	config MatcherConfig,
	notifier ports.Notifier,
) RejectOfferCommandHandler {
	return RejectOfferCommandHandler{
		uowFactory: uowFactory,
		config:     config,
		notifier:   notifier,
	}
}

// Handle processes the rejection. A stale rejection (the offer already
// expired or moved on) is a no-op.
func (h RejectOfferCommandHandler) Handle(ctx context.Context, command RejectOfferCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	return runWithRetry(ctx, func(ctx context.Context) error {
		return h.handle(ctx, command)
	})
}

func (h RejectOfferCommandHandler) handle(ctx context.Context, command RejectOfferCommand) error {
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

	entry, err := uow.QueueRepository().GetLiveByOrder(ctx, command.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		// Already swept or rebroadcast; nothing to reject.
		return nil
	}
	if err != nil {
		return err
	}

	if entry.Status() != queue.StatusOffered ||
		entry.Courier() == nil ||
		!entry.Courier().IsEqual(command.CourierID()) {
		// Stale rejection for an offer this courier no longer holds.
		return nil
	}

	if err = entry.Requeue(time.Now(), time.Time{}, h.config.MaxAttempts); err != nil {
		return err
	}

	if err = uow.QueueRepository().Update(ctx, entry); err != nil {
		if errors.Is(err, ports.ErrEntryNotAvailable) {
			// The sweep requeued it concurrently.
			return nil
		}
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	notifications := []ports.Notification{
		vendorNotification(ord, ports.EventOrderRejectedByRider, nil,
			fmt.Sprintf("rider declined order %s, rebroadcast in progress", ord.OrderNumber())),
	}
	if entry.Status() == queue.StatusExhausted {
		notifications = append(notifications,
			operationsNotification(ord, ports.EventDispatchExhausted,
				fmt.Sprintf("order %s exhausted %d dispatch attempts", ord.OrderNumber(), entry.Attempts())))
	}
	send(ctx, h.notifier, notifications)
	return nil
}
