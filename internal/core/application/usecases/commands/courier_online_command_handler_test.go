package commands_test

import (
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCourierOnlineCommandHandler_Handle_OffersWaitingOrder(t *testing.T) {
	ctx := t.Context()
	matcher := testMatcher(commands.MatcherConfig{OfferTimeout: 30 * time.Second})

	c, err := courier.NewCourier(kernel.NewUUID(), "Alice")
	require.NoError(t, err)
	cmd, err := commands.NewCourierOnlineCommand(c.ID())
	require.NoError(t, err)

	ord := testReadyOrder(t)
	entry := testQueuedEntry(t, ord.ID())
	claimed := testOfferedEntry(t, entry, c.ID())

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	queueRepo := new(MockQueueRepository)
	uow := new(MockUoW)
	wiredUoW(uow, orderRepo, courierRepo, queueRepo)

	courierRepo.On("Get", ctx, c.ID()).Return(c, nil).Once()
	courierRepo.On("Update", ctx, mock.AnythingOfType("*courier.Courier")).Return(nil).Once()
	orderRepo.On("GetActiveByCourier", ctx, c.ID()).Return(nil, errs.ErrObjectNotFound).Once()
	queueRepo.On("GetOldestQueued", ctx).Return(entry, nil).Once()
	courierRepo.On("IsAvailable", ctx, c.ID(), mock.AnythingOfType("time.Time")).Return(true, nil).Once()
	queueRepo.On("ClaimForOffer", ctx, entry.ID(), c.ID(), mock.AnythingOfType("time.Time")).
		Return(claimed, nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCourierOnlineCommandHandler(factory, matcher)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, c.IsOnline())
	uow.AssertCalled(t, "Commit", ctx)
	courierRepo.AssertExpectations(t)
	queueRepo.AssertExpectations(t)
}

func TestCourierOnlineCommandHandler_Handle_ActiveOrderSkipsMatching(t *testing.T) {
	ctx := t.Context()
	matcher := testMatcher(commands.MatcherConfig{OfferTimeout: 30 * time.Second})

	c, err := courier.NewCourier(kernel.NewUUID(), "Alice")
	require.NoError(t, err)
	cmd, err := commands.NewCourierOnlineCommand(c.ID())
	require.NoError(t, err)

	courierID := c.ID()
	active, err := order.RestoreOrder(
		kernel.NewUUID(), "ORD-1001", kernel.NewUUID(), kernel.NewUUID(),
		order.PickedUp, &courierID, "", time.Now(), nil,
	)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	queueRepo := new(MockQueueRepository)
	uow := new(MockUoW)
	wiredUoW(uow, orderRepo, courierRepo, queueRepo)

	courierRepo.On("Get", ctx, c.ID()).Return(c, nil).Once()
	courierRepo.On("Update", ctx, mock.AnythingOfType("*courier.Courier")).Return(nil).Once()
	orderRepo.On("GetActiveByCourier", ctx, c.ID()).Return(active, nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCourierOnlineCommandHandler(factory, matcher)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, c.IsOnline())
	uow.AssertCalled(t, "Commit", ctx)
	queueRepo.AssertNotCalled(t, "GetOldestQueued", mock.Anything)
}

func TestCourierOnlineCommandHandler_Handle_CooldownSkipsMatching(t *testing.T) {
	ctx := t.Context()
	matcher := testMatcher(commands.MatcherConfig{OfferTimeout: 30 * time.Second})

	c, err := courier.RestoreCourier(kernel.NewUUID(), "Alice", false, time.Now().Add(2*time.Minute))
	require.NoError(t, err)
	cmd, err := commands.NewCourierOnlineCommand(c.ID())
	require.NoError(t, err)

	ord := testReadyOrder(t)
	entry := testQueuedEntry(t, ord.ID())

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	queueRepo := new(MockQueueRepository)
	uow := new(MockUoW)
	wiredUoW(uow, orderRepo, courierRepo, queueRepo)

	courierRepo.On("Get", ctx, c.ID()).Return(c, nil).Once()
	courierRepo.On("Update", ctx, mock.AnythingOfType("*courier.Courier")).Return(nil).Once()
	orderRepo.On("GetActiveByCourier", ctx, c.ID()).Return(nil, errs.ErrObjectNotFound).Once()
	queueRepo.On("GetOldestQueued", ctx).Return(entry, nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCourierOnlineCommandHandler(factory, matcher)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, c.IsOnline())
	uow.AssertCalled(t, "Commit", ctx)
	queueRepo.AssertNotCalled(t, "ClaimForOffer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCourierOnlineCommandHandler_Handle_UnknownCourier(t *testing.T) {
	ctx := t.Context()
	matcher := testMatcher(commands.MatcherConfig{OfferTimeout: 30 * time.Second})

	courierID := kernel.NewUUID()
	cmd, err := commands.NewCourierOnlineCommand(courierID)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	queueRepo := new(MockQueueRepository)
	uow := new(MockUoW)
	wiredUoW(uow, orderRepo, courierRepo, queueRepo)

	courierRepo.On("Get", ctx, courierID).
		Return(nil, errs.NewObjectNotFoundError("courier", courierID.String())).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCourierOnlineCommandHandler(factory, matcher)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
