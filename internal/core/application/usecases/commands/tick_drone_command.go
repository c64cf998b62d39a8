package commands

import (
	"errors"

	"dronefleet/internal/core/domain/model/kernel"
	"dronefleet/internal/pkg/guard"
)

var ErrTickDroneCommandIsNotConstructed = errors.New(
	"TickDroneCommand must be created via NewTickDroneCommand constructor",
)

// TickDroneCommand advances a single drone through one simulation step.
type TickDroneCommand struct { //nolint:recvcheck //using for validation
	droneID kernel.UUID

	guard guard.ConstructorGuard
}

// NewTickDroneCommand creates a command to tick the given drone.
func NewTickDroneCommand(droneID kernel.UUID) (TickDroneCommand, error) {
	command := TickDroneCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setDroneID(droneID); err != nil {
		return TickDroneCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c TickDroneCommand) Validate() error {
	return c.guard.Validate(ErrTickDroneCommandIsNotConstructed)
}

// DroneID returns the drone to advance.
func (c TickDroneCommand) DroneID() kernel.UUID {
	return c.droneID
}

func (c *TickDroneCommand) setDroneID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.droneID = id
	return nil
}
