package cmd

import (
	"log/slog"
	"time"

	"dispatch/internal/adapters/out/notify"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	matcher    commands.Matcher
	notifier   ports.Notifier
	cooldown   time.Duration
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	matcherConfig := commands.MatcherConfig{
		OfferTimeout:     config.OfferTimeout,
		CandidateRetries: config.MatchRetries,
		MaxAttempts:      config.MaxAttempts,
	}

	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		matcher:    commands.NewMatcher(services.NewFIFOSelector(), matcherConfig),
		notifier:   notify.NewSlogNotifier(logger),
		cooldown:   config.Cooldown,
	}
}

func (c *CompositionRoot) CreateOrderReadyCommandHandler() commands.OrderReadyCommandHandler {
	return commands.NewOrderReadyCommandHandler(c.createUoWFactory(), c.matcher, c.notifier)
}

func (c *CompositionRoot) CreateCourierOnlineCommandHandler() commands.CourierOnlineCommandHandler {
	return commands.NewCourierOnlineCommandHandler(c.createUoWFactory(), c.matcher)
}

func (c *CompositionRoot) CreateCourierOfflineCommandHandler() commands.CourierOfflineCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCourierOfflineCommandHandler(f)
}

func (c *CompositionRoot) CreateRegisterCourierCommandHandler() commands.RegisterCourierCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterCourierCommandHandler(f)
}

func (c *CompositionRoot) CreateAcceptOfferCommandHandler() commands.AcceptOfferCommandHandler {
	return commands.NewAcceptOfferCommandHandler(c.createUoWFactory(), c.notifier)
}

func (c *CompositionRoot) CreateRejectOfferCommandHandler() commands.RejectOfferCommandHandler {
	return commands.NewRejectOfferCommandHandler(c.createUoWFactory(), c.matcher.Config(), c.notifier)
}

func (c *CompositionRoot) CreateOrderPickedUpCommandHandler() commands.OrderPickedUpCommandHandler {
	return commands.NewOrderPickedUpCommandHandler(c.createUoWFactory(), c.notifier)
}

func (c *CompositionRoot) CreateOrderOutForDeliveryCommandHandler() commands.OrderOutForDeliveryCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewOrderOutForDeliveryCommandHandler(f, c.notifier)
}

func (c *CompositionRoot) CreateOrderDeliveredCommandHandler() commands.OrderDeliveredCommandHandler {
	return commands.NewOrderDeliveredCommandHandler(c.createUoWFactory(), c.cooldown, c.notifier)
}

func (c *CompositionRoot) CreateCourierCancelCommandHandler() commands.CourierCancelCommandHandler {
	return commands.NewCourierCancelCommandHandler(c.createUoWFactory(), c.matcher, c.notifier)
}

func (c *CompositionRoot) CreateExpireOffersCommandHandler() commands.ExpireOffersCommandHandler {
	return commands.NewExpireOffersCommandHandler(c.createUoWFactory(), c.matcher.Config(), c.notifier)
}

func (c *CompositionRoot) CreateMatchPendingCommandHandler() commands.MatchPendingCommandHandler {
	return commands.NewMatchPendingCommandHandler(c.createUoWFactory(), c.matcher)
}

func (c *CompositionRoot) CreateGetDispatchBoardQueryHandler() queries.GetDispatchBoardQueryHandler {
	return queries.NewGetDispatchBoardQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAvailableCouriersQueryHandler() queries.GetAvailableCouriersQueryHandler {
	return queries.NewGetAvailableCouriersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) createUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
