package jobs

import (
	"context"
	"log/slog"

	"dronefleet/internal/core/domain/model/drone"
	"dronefleet/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// ReconciliationJob periodically re-aligns the simulation loop table with
// the registry. The loop table is a derived cache; after a process restart,
// a crashed loop, or an out-of-band registry change, this sweep is what
// brings the simulation back in step.
//
// Every sweep:
//   - ensures a tick loop for every drone in a moving status
//   - ensures a charge loop for every available drone below full battery
//   - stops the loop of every fully charged available drone
type ReconciliationJob struct {
	repo   ports.DroneRepository
	sim    ports.SimulationControl
	cron   *cron.Cron
	logger *slog.Logger
}

// NewReconciliationJob creates the sweep job. It runs every five seconds.
func NewReconciliationJob(
	repo ports.DroneRepository,
	sim ports.SimulationControl,
	logger *slog.Logger,
) *ReconciliationJob {
	return &ReconciliationJob{
		repo:   repo,
		sim:    sim,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger.With("component", "reconciliation_job"),
	}
}

// Start begins the reconciliation sweep.
func (j *ReconciliationJob) Start() error {
	_, err := j.cron.AddFunc("*/5 * * * * *", func() {
		ctx := context.Background()
		if sweepErr := j.Sweep(ctx); sweepErr != nil {
			j.logger.ErrorContext(ctx, "reconciliation sweep failed", "error", sweepErr)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "reconciliation job started (running every 5 seconds)")
	return nil
}

// Stop stops the reconciliation sweep.
func (j *ReconciliationJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "reconciliation job stopped")
}

// Sweep runs one reconciliation pass. Exported so startup can run an
// immediate pass before the schedule kicks in.
func (j *ReconciliationJob) Sweep(ctx context.Context) error {
	active, err := j.repo.GetAllActive(ctx)
	if err != nil {
		return err
	}
	for _, d := range active {
		j.sim.Ensure(d.ID())
	}

	available, err := j.repo.GetAllAvailable(ctx)
	if err != nil {
		return err
	}
	for _, d := range available {
		if d.Battery() < drone.MaxBattery {
			j.sim.Ensure(d.ID())
		} else {
			j.sim.Stop(d.ID())
		}
	}

	return nil
}
