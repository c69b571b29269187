package commands_test

import (
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/queue"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func expiredEntry(t *testing.T, attempts int, version int) *queue.Entry {
	t.Helper()
	courierID := kernel.NewUUID()
	e, err := queue.RestoreEntry(
		kernel.NewUUID(), kernel.NewUUID(), queue.StatusOffered, &courierID,
		attempts, time.Now().Add(-time.Second), time.Now().Add(-31*time.Second), version,
	)
	require.NoError(t, err)
	return e
}

func TestExpireOffersCommandHandler_Handle_RequeuesExpiredOffers(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewExpireOffersCommand()

	first := expiredEntry(t, 0, 1)
	second := expiredEntry(t, 1, 4)

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	queueRepo := new(MockQueueRepository)
	uow := new(MockUoW)
	wiredUoW(uow, orderRepo, courierRepo, queueRepo)

	queueRepo.On("GetExpiredOffers", ctx, mock.AnythingOfType("time.Time")).
		Return([]*queue.Entry{first, second}, nil).Once()
	queueRepo.On("Update", ctx, mock.AnythingOfType("*queue.Entry")).Return(nil).Twice()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewExpireOffersCommandHandler(
		factory, commands.MatcherConfig{MaxAttempts: 10}, nil,
	)
	err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, queue.StatusQueued, first.Status())
	assert.Equal(t, 1, first.Attempts())
	assert.Nil(t, first.Courier())
	assert.Equal(t, queue.StatusQueued, second.Status())
	assert.Equal(t, 2, second.Attempts())
	uow.AssertCalled(t, "Commit", ctx)
	queueRepo.AssertExpectations(t)
}

func TestExpireOffersCommandHandler_Handle_EmptySweepCommitsNothing(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewExpireOffersCommand()

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	queueRepo := new(MockQueueRepository)
	uow := new(MockUoW)
	wiredUoW(uow, orderRepo, courierRepo, queueRepo)

	queueRepo.On("GetExpiredOffers", ctx, mock.AnythingOfType("time.Time")).
		Return([]*queue.Entry{}, nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewExpireOffersCommandHandler(factory, commands.MatcherConfig{}, nil)
	err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	queueRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestExpireOffersCommandHandler_Handle_SkipsEntriesLostToAnotherReplica(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewExpireOffersCommand()

	lost := expiredEntry(t, 0, 1)
	won := expiredEntry(t, 0, 1)

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	queueRepo := new(MockQueueRepository)
	uow := new(MockUoW)
	wiredUoW(uow, orderRepo, courierRepo, queueRepo)

	queueRepo.On("GetExpiredOffers", ctx, mock.AnythingOfType("time.Time")).
		Return([]*queue.Entry{lost, won}, nil).Once()
	queueRepo.On("Update", ctx, lost).Return(ports.ErrEntryNotAvailable).Once()
	queueRepo.On("Update", ctx, won).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewExpireOffersCommandHandler(
		factory, commands.MatcherConfig{MaxAttempts: 10}, nil,
	)
	err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	uow.AssertCalled(t, "Commit", ctx)
	queueRepo.AssertExpectations(t)
}

func TestExpireOffersCommandHandler_Handle_AlertsOperationsOnExhaustion(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewExpireOffersCommand()

	entry := expiredEntry(t, 2, 3)
	ord := testReadyOrder(t)

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	queueRepo := new(MockQueueRepository)
	uow := new(MockUoW)
	wiredUoW(uow, orderRepo, courierRepo, queueRepo)

	queueRepo.On("GetExpiredOffers", ctx, mock.AnythingOfType("time.Time")).
		Return([]*queue.Entry{entry}, nil).Once()
	queueRepo.On("Update", ctx, entry).Return(nil).Once()
	orderRepo.On("Get", ctx, entry.OrderID()).Return(ord, nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotifier)
	notifier.On("Notify", ctx, mock.AnythingOfType("ports.Notification")).Return()

	handler := commands.NewExpireOffersCommandHandler(
		factory, commands.MatcherConfig{MaxAttempts: 3}, notifier,
	)
	err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, queue.StatusExhausted, entry.Status())

	notifier.AssertNumberOfCalls(t, "Notify", 1)
	n := notifier.Calls[0].Arguments[1].(ports.Notification)
	assert.Equal(t, ports.EventDispatchExhausted, n.Event)
	assert.Equal(t, ports.AudienceOperations, n.Audience)
}

func TestExpireOffersCommand_Validate(t *testing.T) {
	t.Run("constructed command passes", func(t *testing.T) {
		cmd := commands.NewExpireOffersCommand()

		require.NoError(t, cmd.Validate())
	})

	t.Run("zero value command fails", func(t *testing.T) {
		var cmd commands.ExpireOffersCommand

		err := cmd.Validate()

		require.Error(t, err)
		assert.ErrorIs(t, err, commands.ErrExpireOffersCommandIsNotConstructed)
	})
}
