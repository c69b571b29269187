package commands_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAcceptOfferCommand(t *testing.T) {
	orderID := kernel.NewUUID()
	courierID := kernel.NewUUID()

	t.Run("should create valid command", func(t *testing.T) {
		cmd, err := commands.NewAcceptOfferCommand(orderID, courierID)

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.True(t, cmd.OrderID().IsEqual(orderID))
		assert.True(t, cmd.CourierID().IsEqual(courierID))
	})

	t.Run("should fail with invalid order ID", func(t *testing.T) {
		var invalidID kernel.UUID

		_, err := commands.NewAcceptOfferCommand(invalidID, courierID)

		require.Error(t, err)
	})

	t.Run("should fail with invalid courier ID", func(t *testing.T) {
		var invalidID kernel.UUID

		_, err := commands.NewAcceptOfferCommand(orderID, invalidID)

		require.Error(t, err)
	})

	t.Run("should reject zero value command", func(t *testing.T) {
		var cmd commands.AcceptOfferCommand

		err := cmd.Validate()

		require.Error(t, err)
		assert.ErrorIs(t, err, commands.ErrAcceptOfferCommandIsNotConstructed)
	})
}
