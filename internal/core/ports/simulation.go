package ports

import "dronefleet/internal/core/domain/model/kernel"

// SimulationControl enrolls drones in and removes them from the set of
// running per-vehicle tick loops. Both operations are idempotent: ensuring a
// drone that already has a loop, or stopping one that has none, is a no-op.
//
// The loop table behind this interface is a derived cache; the registry
// stays authoritative and the reconciliation sweep repairs any divergence.
type SimulationControl interface {
	// Ensure starts a tick loop for the drone if none is running.
	Ensure(droneID kernel.UUID)

	// Stop cancels the drone's tick loop if one is running. Future ticks are
	// cancelled immediately; an in-flight tick finishes and persists first.
	Stop(droneID kernel.UUID)
}
