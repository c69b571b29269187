package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCourierCancelCommandIsNotConstructed = errors.New(
	"CourierCancelCommand must be created via NewCourierCancelCommand constructor",
)

// CourierCancelCommand represents the assigned courier abandoning a
// delivery mid-flight. The cancellation is recoverable: the order still
// has to be delivered, so it goes back into dispatch with a fresh
// rebroadcast window. The reason is free-form and optional.
type CourierCancelCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	courierID kernel.UUID
	reason    string

	guard guard.ConstructorGuard
}

// NewCourierCancelCommand creates a command for a courier-initiated
// cancellation.
func NewCourierCancelCommand(
	orderID kernel.UUID,
	courierID kernel.UUID,
	reason string,
) (CourierCancelCommand, error) {
	command := CourierCancelCommand{
		reason: reason,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setCourierID(courierID),
	); err != nil {
		return CourierCancelCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CourierCancelCommand) Validate() error {
	return c.guard.Validate(ErrCourierCancelCommandIsNotConstructed)
}

// OrderID returns the abandoned order.
func (c CourierCancelCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CourierID returns the cancelling courier.
func (c CourierCancelCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Reason returns the courier's stated reason, possibly empty.
func (c CourierCancelCommand) Reason() string {
	return c.reason
}

func (c *CourierCancelCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CourierCancelCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}
