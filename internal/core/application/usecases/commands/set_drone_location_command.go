package commands

import (
	"errors"

	"dronefleet/internal/core/domain/model/kernel"
	"dronefleet/internal/pkg/guard"
)

var ErrSetDroneLocationCommandIsNotConstructed = errors.New(
	"SetDroneLocationCommand must be created via NewSetDroneLocationCommand constructor",
)

// SetDroneLocationCommand represents a manual reposition of a drone,
// bypassing simulated movement.
type SetDroneLocationCommand struct { //nolint:recvcheck //using for validation
	droneID  kernel.UUID
	position kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewSetDroneLocationCommand creates a manual reposition command.
func NewSetDroneLocationCommand(droneID kernel.UUID, position kernel.GeoPoint) (SetDroneLocationCommand, error) {
	command := SetDroneLocationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setDroneID(droneID),
		command.setPosition(position),
	); err != nil {
		return SetDroneLocationCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c SetDroneLocationCommand) Validate() error {
	return c.guard.Validate(ErrSetDroneLocationCommandIsNotConstructed)
}

// DroneID returns the drone being repositioned.
func (c SetDroneLocationCommand) DroneID() kernel.UUID {
	return c.droneID
}

// Position returns the new coordinates.
func (c SetDroneLocationCommand) Position() kernel.GeoPoint {
	return c.position
}

func (c *SetDroneLocationCommand) setDroneID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.droneID = id
	return nil
}

func (c *SetDroneLocationCommand) setPosition(p kernel.GeoPoint) error {
	if err := p.Validate(); err != nil {
		return err
	}
	c.position = p
	return nil
}
