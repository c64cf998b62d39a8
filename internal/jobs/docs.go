// Package jobs provides scheduled background tasks for the drone fleet
// service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required by the simulation.
//
// # Available Jobs
//
// 1. ReconciliationJob - Runs every five seconds to re-align the simulation
// loop table with the registry: restarting loops for moving drones,
// starting charge loops for drained available drones, and stopping loops
// that are no longer needed.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(droneRepository, supervisor, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
package jobs
