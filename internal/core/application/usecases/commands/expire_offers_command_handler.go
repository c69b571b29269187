package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/queue"
	"dispatch/internal/core/ports"
)

// ExpireOffersCommandHandler is the offer timeout supervisor: every entry
// still Offered past its deadline goes back to Queued with the attempt
// counter incremented, freeing the unresponsive courier. Entries at the
// attempt cap become Exhausted and operations is alerted.
//
// Safe to run concurrently with itself and with the accept/reject
// handlers: each entry update is guarded by the entry's version, so a
// replica that loses the race skips the entry instead of double-applying
// the expiry.
type ExpireOffersCommandHandler struct {
	uowFactory UoWFactory
	config     MatcherConfig
	notifier   ports.Notifier
}

// NewExpireOffersCommandHandler creates the offer timeout supervisor.
func NewExpireOffersCommandHandler(
	uowFactory UoWFactory,
	config MatcherConfig,
	notifier ports.Notifier,
) ExpireOffersCommandHandler {
	return ExpireOffersCommandHandler{
		uowFactory: uowFactory,
		config:     config,
		notifier:   notifier,
	}
}

// Handle sweeps all currently expired offers in one transaction.
func (h ExpireOffersCommandHandler) Handle(ctx context.Context, command ExpireOffersCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	return runWithRetry(ctx, func(ctx context.Context) error {
		return h.handle(ctx)
	})
}

func (h ExpireOffersCommandHandler) handle(ctx context.Context) error {
	now := time.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	expired, err := uow.QueueRepository().GetExpiredOffers(ctx, now)
	if err != nil {
		return err
	}
	if len(expired) == 0 {
		return nil
	}

	var notifications []ports.Notification
	for _, entry := range expired {
		if err = entry.Requeue(now, time.Time{}, h.config.MaxAttempts); err != nil {
			return err
		}

		if err = uow.QueueRepository().Update(ctx, entry); err != nil {
			if errors.Is(err, ports.ErrEntryNotAvailable) {
				// Another replica or a late accept got there first.
				continue
			}
			return err
		}

		if entry.Status() != queue.StatusExhausted {
			continue
		}

		ord, ordErr := uow.OrderRepository().Get(ctx, entry.OrderID())
		if ordErr != nil {
			return ordErr
		}

		notifications = append(notifications,
			operationsNotification(ord, ports.EventDispatchExhausted,
				fmt.Sprintf("order %s exhausted %d dispatch attempts", ord.OrderNumber(), entry.Attempts())))
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	send(ctx, h.notifier, notifications)
	return nil
}
