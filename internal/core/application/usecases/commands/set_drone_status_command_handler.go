package commands

import (
	"context"
	"log/slog"

	"dronefleet/internal/core/domain/model/drone"
	"dronefleet/internal/core/ports"
	"dronefleet/internal/telemetry"
)

// SetDroneStatusCommandHandler applies an operator status override and keeps
// the simulation in step: drones forced back into an active state get a tick
// loop, grounded or parked drones keep theirs only if charging remains.
type SetDroneStatusCommandHandler struct {
	repo      ports.DroneRepository
	sim       ports.SimulationControl
	publisher telemetry.Publisher
	logger    *slog.Logger
}

// NewSetDroneStatusCommandHandler creates the status override handler.
func NewSetDroneStatusCommandHandler(
	repo ports.DroneRepository,
	sim ports.SimulationControl,
	publisher telemetry.Publisher,
	logger *slog.Logger,
) SetDroneStatusCommandHandler {
	return SetDroneStatusCommandHandler{
		repo:      repo,
		sim:       sim,
		publisher: publisher,
		logger:    logger.With("component", "fleet"),
	}
}

// Handle overrides the drone's status after the domain rules vet the
// transition, then reconciles the tick loop with the new state.
func (h SetDroneStatusCommandHandler) Handle(ctx context.Context, cmd SetDroneStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	d, err := h.repo.Get(ctx, cmd.DroneID())
	if err != nil {
		return err
	}

	if err = d.OverrideStatus(cmd.Status()); err != nil {
		return err
	}

	if err = h.repo.Update(ctx, d); err != nil {
		return err
	}

	switch {
	case d.Status().IsActive():
		h.sim.Ensure(d.ID())
	case d.Status() == drone.Available && d.Battery() < drone.MaxBattery:
		h.sim.Ensure(d.ID())
	default:
		h.sim.Stop(d.ID())
	}

	h.publisher.Publish(eventFromDrone(d, telemetry.EventTypeStatus, "status override"))

	h.logger.InfoContext(ctx, "drone status overridden",
		"drone_id", d.ID().String(),
		"status", d.Status().String(),
	)

	return nil
}
