package cmd

import (
	"log/slog"

	adapterhttp "dronefleet/internal/adapters/in/http"
	"dronefleet/internal/adapters/out/geocode"
	"dronefleet/internal/adapters/out/orders"
	"dronefleet/internal/adapters/out/postgres/dronerepo"
	"dronefleet/internal/core/application/usecases/commands"
	"dronefleet/internal/core/application/usecases/queries"
	"dronefleet/internal/core/domain/model/kernel"
	"dronefleet/internal/jobs"
	"dronefleet/internal/sim"
	"dronefleet/internal/telemetry"

	"gorm.io/gorm"
)

// CompositionRoot wires the adapters, use cases and background machinery
// of the fleet service together.
type CompositionRoot struct {
	gormDB      *gorm.DB
	broadcaster *telemetry.Broadcaster
	supervisor  *sim.Supervisor
	jobManager  *jobs.JobManager
	server      *adapterhttp.Server
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	depot, err := kernel.NewGeoPoint(config.DepotLat, config.DepotLon)
	if err != nil {
		return nil, err
	}

	repo := dronerepo.NewGormDroneRepository(gormDB)
	broadcaster := telemetry.NewBroadcaster(logger)
	geocoder := geocode.NewClient(config.GeocoderBaseURL, config.GeocoderTimeout, depot, logger)
	orderService := orders.NewClient(config.OrderServiceURL, config.OrderServiceToken, config.OrderServiceTimeout)

	tickSettings := commands.DefaultTickSettings()
	tickSettings.Interval = config.TickInterval
	tickSettings.Dwell = config.DwellDuration
	tickHandler := commands.NewTickDroneCommandHandler(repo, orderService, broadcaster, tickSettings, logger)
	supervisor := sim.NewSupervisor(tickHandler, tickSettings.Interval, logger)

	server := adapterhttp.NewServer(
		commands.NewRegisterDroneCommandHandler(repo, depot),
		commands.NewAssignDroneCommandHandler(repo, orderService, geocoder, supervisor, broadcaster, logger),
		commands.NewSetDroneStatusCommandHandler(repo, supervisor, broadcaster, logger),
		commands.NewSetDroneLocationCommandHandler(repo, broadcaster, logger),
		queries.NewGetAvailableDronesQueryHandler(gormDB),
		queries.NewGetDroneByIDQueryHandler(gormDB),
		queries.NewGetDroneByOrderQueryHandler(gormDB),
		broadcaster,
	)

	return &CompositionRoot{
		gormDB:      gormDB,
		broadcaster: broadcaster,
		supervisor:  supervisor,
		jobManager:  jobs.NewJobManager(repo, supervisor, logger),
		server:      server,
	}, nil
}

func (c *CompositionRoot) Server() *adapterhttp.Server {
	return c.server
}

func (c *CompositionRoot) Supervisor() *sim.Supervisor {
	return c.supervisor
}

func (c *CompositionRoot) JobManager() *jobs.JobManager {
	return c.jobManager
}
