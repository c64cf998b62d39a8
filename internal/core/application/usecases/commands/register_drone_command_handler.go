package commands

import (
	"context"

	"dronefleet/internal/core/domain/model/drone"
	"dronefleet/internal/core/domain/model/kernel"
	"dronefleet/internal/core/ports"
)

// RegisterDroneCommandHandler registers new drones into the fleet registry.
// Fresh drones start available and fully charged at their home location.
type RegisterDroneCommandHandler struct {
	repo  ports.DroneRepository
	depot kernel.GeoPoint
}

// NewRegisterDroneCommandHandler creates a handler for drone registration.
// The depot location is used as the home for drones registered without an
// explicit initial location.
func NewRegisterDroneCommandHandler(repo ports.DroneRepository, depot kernel.GeoPoint) RegisterDroneCommandHandler {
	return RegisterDroneCommandHandler{
		repo:  repo,
		depot: depot,
	}
}

// Handle registers the drone described by the command.
// The generated ID is available on the command via DroneID().
func (h RegisterDroneCommandHandler) Handle(ctx context.Context, cmd RegisterDroneCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	home := h.depot
	if cmd.Home() != nil {
		home = *cmd.Home()
	}

	newDrone, err := drone.NewDrone(cmd.DroneID(), cmd.Name(), home, cmd.SpeedKmh())
	if err != nil {
		return err
	}

	return h.repo.Add(ctx, newDrone)
}
