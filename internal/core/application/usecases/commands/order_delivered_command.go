package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrOrderDeliveredCommandIsNotConstructed = errors.New(
	"OrderDeliveredCommand must be created via NewOrderDeliveredCommand constructor",
)

// OrderDeliveredCommand represents the courier handing the order to the
// customer.
type OrderDeliveredCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewOrderDeliveredCommand creates a command announcing the order was delivered.
func NewOrderDeliveredCommand(orderID kernel.UUID, courierID kernel.UUID) (OrderDeliveredCommand, error) {
	command := OrderDeliveredCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setCourierID(courierID),
	); err != nil {
		return OrderDeliveredCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c OrderDeliveredCommand) Validate() error {
	return c.guard.Validate(ErrOrderDeliveredCommandIsNotConstructed)
}

// OrderID returns the delivered order.
func (c OrderDeliveredCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CourierID returns the delivering courier.
func (c OrderDeliveredCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c *OrderDeliveredCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *OrderDeliveredCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}
