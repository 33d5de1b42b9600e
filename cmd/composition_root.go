package cmd

import (
	"log/slog"

	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters into the application handlers. All
// dependencies are resolved here so the rest of the code depends only on
// interfaces.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	couriers   ports.CourierDirectory
	locations  ports.BusinessLocationDirectory
	notifier   ports.Notifier
	settings   commands.AssignmentSettings
	logger     *slog.Logger
}

// NewCompositionRoot creates the root from already-constructed
// infrastructure.
func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	couriers ports.CourierDirectory,
	locations ports.BusinessLocationDirectory,
	notifier ports.Notifier,
	logger *slog.Logger,
) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		couriers:   couriers,
		locations:  locations,
		notifier:   notifier,
		settings: commands.AssignmentSettings{
			MaxRetries:           config.MaxRetries,
			MaxCourierDistanceKm: config.MaxCourierDistanceKm,
			OfferExpiry:          config.OfferExpiry,
			CheckInterval:        config.CheckInterval,
			RetryDelay:           config.RetryDelay,
			PricePerKm:           config.PricePerKm,
			EnableReassignment:   config.EnableReassignment,
		},
		logger: logger,
	}
}

// Settings returns the dispatch tuning knobs derived from config.
func (c *CompositionRoot) Settings() commands.AssignmentSettings {
	return c.settings
}

func (c *CompositionRoot) createUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateDeliveryCommandHandler() commands.CreateDeliveryCommandHandler {
	return commands.NewCreateDeliveryCommandHandler(c.createUoWFactory(),
		services.NewCourierMatcher(), c.couriers, c.locations, c.notifier,
		c.settings, c.logger)
}

func (c *CompositionRoot) CreateAcceptOfferCommandHandler() commands.AcceptOfferCommandHandler {
	return commands.NewAcceptOfferCommandHandler(c.createUoWFactory(),
		services.NewCourierMatcher(), services.NewLegSplitter(), c.couriers,
		c.locations, c.notifier, c.settings, c.logger)
}

func (c *CompositionRoot) CreateDeclineOfferCommandHandler() commands.DeclineOfferCommandHandler {
	return commands.NewDeclineOfferCommandHandler(c.createUoWFactory(),
		services.NewCourierMatcher(), c.couriers, c.locations, c.notifier,
		c.settings, c.logger)
}

func (c *CompositionRoot) CreateCancelDeliveryCommandHandler() commands.CancelDeliveryCommandHandler {
	return commands.NewCancelDeliveryCommandHandler(c.createUoWFactory(),
		c.notifier, c.logger)
}

func (c *CompositionRoot) CreateMarkPickedUpCommandHandler() commands.MarkPickedUpCommandHandler {
	return commands.NewMarkPickedUpCommandHandler(c.createUoWFactory())
}

func (c *CompositionRoot) CreateCompleteDeliveryCommandHandler() commands.CompleteDeliveryCommandHandler {
	return commands.NewCompleteDeliveryCommandHandler(c.createUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateBulkAssignCourierCommandHandler() commands.BulkAssignCourierCommandHandler {
	return commands.NewBulkAssignCourierCommandHandler(c.createUoWFactory(),
		c.couriers, c.notifier, c.logger)
}

func (c *CompositionRoot) CreateUpdateTrackingCommandHandler() commands.UpdateTrackingCommandHandler {
	return commands.NewUpdateTrackingCommandHandler(c.createUoWFactory())
}

func (c *CompositionRoot) CreateReassignStalledCommandHandler() commands.ReassignStalledCommandHandler {
	return commands.NewReassignStalledCommandHandler(c.createUoWFactory(),
		services.NewCourierMatcher(), c.couriers, c.locations, c.notifier,
		c.settings, c.logger)
}

func (c *CompositionRoot) CreateGetDeliveryQueryHandler() queries.GetDeliveryQueryHandler {
	return queries.NewGetDeliveryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetUnassignedClustersQueryHandler() queries.GetUnassignedClustersQueryHandler {
	return queries.NewGetUnassignedClustersQueryHandler(c.gormDB)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
