// Package ports defines the contracts between the domain layer and
// infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"

	"dronefleet/internal/core/domain/model/drone"
	"dronefleet/internal/core/domain/model/kernel"
)

// DroneRepository defines the persistence contract for drone aggregates.
// The registry is the source of truth for vehicle state; the simulation's
// in-memory loop table is only a cache derived from it.
type DroneRepository interface {
	// Add persists a newly registered drone.
	// The drone must be valid and not already exist in the registry.
	Add(ctx context.Context, drone *drone.Drone) error

	// Update persists changes to an existing drone using optimistic
	// concurrency: the write only succeeds when the stored version still
	// matches the version the aggregate was loaded with. A stale write
	// returns a Conflict error so the caller can reload and retry.
	Update(ctx context.Context, drone *drone.Drone) error

	// Get retrieves a drone by its unique identifier.
	// Returns an ObjectNotFoundError when the drone does not exist.
	Get(ctx context.Context, id kernel.UUID) (*drone.Drone, error)

	// GetByOrder retrieves the drone actively working the given order.
	// At most one drone carries any order at a time.
	GetByOrder(ctx context.Context, orderID kernel.UUID) (*drone.Drone, error)

	// GetAllAvailable retrieves every drone in the available pool.
	GetAllAvailable(ctx context.Context) ([]*drone.Drone, error)

	// GetAllActive retrieves every drone in a moving status (flying,
	// delivering, or returning). The reconciliation sweep uses this to
	// restart loops after a process restart.
	GetAllActive(ctx context.Context) ([]*drone.Drone, error)
}
