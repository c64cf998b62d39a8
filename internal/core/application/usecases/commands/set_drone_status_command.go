package commands

import (
	"errors"

	"dronefleet/internal/core/domain/model/drone"
	"dronefleet/internal/core/domain/model/kernel"
	"dronefleet/internal/pkg/guard"
)

var ErrSetDroneStatusCommandIsNotConstructed = errors.New(
	"SetDroneStatusCommand must be created via NewSetDroneStatusCommand constructor",
)

// SetDroneStatusCommand represents an operator override of a drone's status,
// for example grounding a vehicle for maintenance or returning it to service.
type SetDroneStatusCommand struct { //nolint:recvcheck //using for validation
	droneID kernel.UUID
	status  drone.Status

	guard guard.ConstructorGuard
}

// NewSetDroneStatusCommand creates a status override command. The status is
// given as its wire string ("available", "maintenance", ...).
func NewSetDroneStatusCommand(droneID kernel.UUID, status string) (SetDroneStatusCommand, error) {
	command := SetDroneStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setDroneID(droneID),
		command.setStatus(status),
	); err != nil {
		return SetDroneStatusCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c SetDroneStatusCommand) Validate() error {
	return c.guard.Validate(ErrSetDroneStatusCommandIsNotConstructed)
}

// DroneID returns the drone being overridden.
func (c SetDroneStatusCommand) DroneID() kernel.UUID {
	return c.droneID
}

// Status returns the requested status.
func (c SetDroneStatusCommand) Status() drone.Status {
	return c.status
}

func (c *SetDroneStatusCommand) setDroneID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.droneID = id
	return nil
}

func (c *SetDroneStatusCommand) setStatus(status string) error {
	parsed, err := drone.StatusFromString(status)
	if err != nil {
		return err
	}
	c.status = parsed
	return nil
}
