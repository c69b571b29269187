package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/queue"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// AcceptOfferCommandHandler turns an offer into an assignment: the queue
// entry moves Offered to Assigned and the order moves ReadyForPickup to
// Assigned inside one transaction. A stale acceptance, where the offer
// expired, was rebroadcast or was claimed from this courier concurrently, fails
// with ErrOfferNoLongerValid and mutates nothing; the courier is informed
// the offer lapsed, the system state is untouched.
type AcceptOfferCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
}

// NewAcceptOfferCommandHandler creates a handler for offer acceptance.
func NewAcceptOfferCommandHandler(uowFactory UoWFactory, notifier ports.Notifier) AcceptOfferCommandHandler {
	return AcceptOfferCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the acceptance. Replaying an acceptance the courier
// already won is a no-op.
func (h AcceptOfferCommandHandler) Handle(ctx context.Context, command AcceptOfferCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	return runWithRetry(ctx, func(ctx context.Context) error {
		return h.handle(ctx, command)
	})
}

func (h AcceptOfferCommandHandler) handle(ctx context.Context, command AcceptOfferCommand) error {
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

	if ord.Status() == order.Assigned && ord.Courier() != nil && ord.Courier().IsEqual(command.CourierID()) {
		// Replayed acceptance; the assignment already happened.
		return nil
	}

	entry, err := uow.QueueRepository().GetLiveByOrder(ctx, command.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ErrOfferNoLongerValid
	}
	if err != nil {
		return err
	}

	if entry.IsExpired(time.Now()) {
		return ErrOfferNoLongerValid
	}

	if err = entry.ConfirmAssignment(command.CourierID()); err != nil {
		if errors.Is(err, queue.ErrOfferCourierMismatch) || errors.Is(err, queue.ErrInvalidQueueTransition) {
			return ErrOfferNoLongerValid
		}
		return err
	}

	if err = ord.Assign(command.CourierID()); err != nil {
		return err
	}

	if err = uow.QueueRepository().Update(ctx, entry); err != nil {
		if errors.Is(err, ports.ErrEntryNotAvailable) {
			// The sweep or a rebroadcast won the race.
			return ErrOfferNoLongerValid
		}
		return err
	}

	if err = uow.OrderRepository().Update(ctx, ord); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	courierID := command.CourierID()
	message := fmt.Sprintf("rider assigned to order %s", ord.OrderNumber())
	send(ctx, h.notifier, []ports.Notification{
		customerNotification(ord, ports.EventRiderAssigned, &courierID, message),
		vendorNotification(ord, ports.EventRiderAssigned, &courierID, message),
	})
	return nil
}
