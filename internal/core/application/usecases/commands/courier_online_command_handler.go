package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/pkg/errs"
)

// CourierOnlineCommandHandler flips a courier's presence to online and
// tries to match the oldest waiting order against this courier specifically.
// A courier with an active order gets the presence flip only: matching is
// short-circuited until the delivery ends.
type CourierOnlineCommandHandler struct {
	uowFactory UoWFactory
	matcher    Matcher
}

// NewCourierOnlineCommandHandler creates a handler for courier online events.
func NewCourierOnlineCommandHandler(uowFactory UoWFactory, matcher Matcher) CourierOnlineCommandHandler {
	return CourierOnlineCommandHandler{
		uowFactory: uowFactory,
		matcher:    matcher,
	}
}

// Handle processes the courier online event. Replaying the event is
// harmless: going online twice is the same as going online once.
func (h CourierOnlineCommandHandler) Handle(ctx context.Context, command CourierOnlineCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	return runWithRetry(ctx, func(ctx context.Context) error {
		return h.handle(ctx, command)
	})
}

func (h CourierOnlineCommandHandler) handle(ctx context.Context, command CourierOnlineCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	c, err := uow.CourierRepository().Get(ctx, command.CourierID())
	if err != nil {
		return err
	}

	c.GoOnline()
	if err = uow.CourierRepository().Update(ctx, c); err != nil {
		return err
	}

	_, err = uow.OrderRepository().GetActiveByCourier(ctx, command.CourierID())
	if err == nil {
		// Active order present: presence flip only.
		return uow.Commit(ctx)
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}

	entry, err := uow.QueueRepository().GetOldestQueued(ctx)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return uow.Commit(ctx)
	}
	if err != nil {
		return err
	}

	if c.IsWithinCooldown(time.Now()) {
		return uow.Commit(ctx)
	}

	if _, err = h.matcher.MatchEntryToCourier(ctx, uow, entry, command.CourierID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
