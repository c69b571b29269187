package commands

import (
	"context"
)

// CourierOfflineCommandHandler flips a courier's presence to offline.
// The courier stops receiving offers; a delivery already in progress is
// unaffected because engagement is tracked separately from presence.
type CourierOfflineCommandHandler struct {
	uowFactory CourierUoWFactory
}

// NewCourierOfflineCommandHandler creates a handler for courier offline events.
func NewCourierOfflineCommandHandler(uowFactory CourierUoWFactory) CourierOfflineCommandHandler {
	return CourierOfflineCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the courier offline event.
func (h CourierOfflineCommandHandler) Handle(ctx context.Context, command CourierOfflineCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	return runWithRetry(ctx, func(ctx context.Context) error {
		return h.handle(ctx, command)
	})
}

func (h CourierOfflineCommandHandler) handle(ctx context.Context, command CourierOfflineCommand) error {
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

	c.GoOffline()
	if err = uow.CourierRepository().Update(ctx, c); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
