package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrOrderPickedUpCommandIsNotConstructed = errors.New(
	"OrderPickedUpCommand must be created via NewOrderPickedUpCommand constructor",
)

// OrderPickedUpCommand represents the assigned courier collecting the order
// from the vendor.
type OrderPickedUpCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewOrderPickedUpCommand creates a command announcing the order was picked up.
func NewOrderPickedUpCommand(orderID kernel.UUID, courierID kernel.UUID) (OrderPickedUpCommand, error) {
	command := OrderPickedUpCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setCourierID(courierID),
	); err != nil {
		return OrderPickedUpCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c OrderPickedUpCommand) Validate() error {
	return c.guard.Validate(ErrOrderPickedUpCommandIsNotConstructed)
}

// OrderID returns the collected order.
func (c OrderPickedUpCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CourierID returns the collecting courier.
func (c OrderPickedUpCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c *OrderPickedUpCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *OrderPickedUpCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}
