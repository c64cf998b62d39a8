package commands

import (
	"errors"

	"dronefleet/internal/core/domain/model/drone"
	"dronefleet/internal/core/domain/model/kernel"
	"dronefleet/internal/pkg/guard"
)

var (
	ErrRegisterDroneCommandIsNotConstructed = errors.New(
		"RegisterDroneCommand must be created via NewRegisterDroneCommand constructor",
	)
	ErrNameIsRequired = errors.New("name is required")
	ErrSpeedIsInvalid = errors.New("speed must not be negative")
)

// RegisterDroneCommand represents a request to register a new drone in the
// fleet. The home location and cruise speed are optional; the handler falls
// back to the depot location and the default cruise speed.
type RegisterDroneCommand struct { //nolint:recvcheck //using for validation
	droneID  kernel.UUID
	name     string
	home     *kernel.GeoPoint
	speedKmh float64

	guard guard.ConstructorGuard
}

// NewRegisterDroneCommand creates a command to register a new drone.
// Automatically generates a unique ID for the vehicle. A zero speed means
// "use the default"; negative speeds are rejected.
func NewRegisterDroneCommand(name string, home *kernel.GeoPoint, speedKmh float64) (RegisterDroneCommand, error) {
	command := RegisterDroneCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setDroneID(kernel.NewUUID()),
		command.setName(name),
		command.setHome(home),
		command.setSpeed(speedKmh),
	); err != nil {
		return RegisterDroneCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterDroneCommand) Validate() error {
	return c.guard.Validate(ErrRegisterDroneCommandIsNotConstructed)
}

// DroneID returns the generated drone ID.
func (c RegisterDroneCommand) DroneID() kernel.UUID {
	return c.droneID
}

// Name returns the drone display name.
func (c RegisterDroneCommand) Name() string {
	return c.name
}

// Home returns the requested home location, or nil for the depot default.
func (c RegisterDroneCommand) Home() *kernel.GeoPoint {
	return c.home
}

// SpeedKmh returns the requested cruise speed; zero means the default.
func (c RegisterDroneCommand) SpeedKmh() float64 {
	if c.speedKmh == 0 {
		return drone.DefaultSpeedKmh
	}
	return c.speedKmh
}

func (c *RegisterDroneCommand) setDroneID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.droneID = id
	return nil
}

func (c *RegisterDroneCommand) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}

func (c *RegisterDroneCommand) setHome(home *kernel.GeoPoint) error {
	if home != nil {
		if err := home.Validate(); err != nil {
			return err
		}
	}
	c.home = home
	return nil
}

func (c *RegisterDroneCommand) setSpeed(speedKmh float64) error {
	if speedKmh < 0 {
		return ErrSpeedIsInvalid
	}
	c.speedKmh = speedKmh
	return nil
}
