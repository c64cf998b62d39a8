package jobs

import (
	"fmt"
	"log/slog"

	"dronefleet/internal/core/ports"
)

// JobManager coordinates the scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	reconciliationJob *ReconciliationJob
}

// NewJobManager creates a job manager with all required jobs.
func NewJobManager(
	repo ports.DroneRepository,
	sim ports.SimulationControl,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		reconciliationJob: NewReconciliationJob(repo, sim, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.reconciliationJob.Start(); err != nil {
		return fmt.Errorf("failed to start reconciliation job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.reconciliationJob.Stop()
}

// Reconciliation exposes the sweep job for an immediate startup pass.
func (jm *JobManager) Reconciliation() *ReconciliationJob {
	return jm.reconciliationJob
}
