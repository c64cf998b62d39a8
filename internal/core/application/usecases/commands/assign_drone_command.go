package commands

import (
	"errors"

	"dronefleet/internal/core/domain/model/kernel"
	"dronefleet/internal/pkg/guard"
)

var ErrAssignDroneCommandIsNotConstructed = errors.New(
	"AssignDroneCommand must be created via NewAssignDroneCommand constructor",
)

// AssignDroneCommand represents a request to dispatch a specific drone onto
// an order. The destination is optional: when absent, the handler fetches
// the order's delivery address and geocodes it. An optional pickup point
// turns the route into two legs (pickup first, then final delivery).
type AssignDroneCommand struct { //nolint:recvcheck //using for validation
	droneID kernel.UUID
	orderID kernel.UUID

	destination      *kernel.GeoPoint
	destinationLabel string
	pickup           *kernel.GeoPoint
	pickupLabel      string

	guard guard.ConstructorGuard
}

// NewAssignDroneCommand creates a dispatch command.
// destination and pickup may be nil; labels are free-form display text.
func NewAssignDroneCommand(
	droneID kernel.UUID,
	orderID kernel.UUID,
	destination *kernel.GeoPoint,
	destinationLabel string,
	pickup *kernel.GeoPoint,
	pickupLabel string,
) (AssignDroneCommand, error) {
	command := AssignDroneCommand{
		destinationLabel: destinationLabel,
		pickupLabel:      pickupLabel,
		guard:            guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setDroneID(droneID),
		command.setOrderID(orderID),
		command.setDestination(destination),
		command.setPickup(pickup),
	); err != nil {
		return AssignDroneCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignDroneCommand) Validate() error {
	return c.guard.Validate(ErrAssignDroneCommandIsNotConstructed)
}

// DroneID returns the drone to dispatch.
func (c AssignDroneCommand) DroneID() kernel.UUID {
	return c.droneID
}

// OrderID returns the order being fulfilled.
func (c AssignDroneCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Destination returns the explicit destination, or nil when the handler
// should resolve it from the order.
func (c AssignDroneCommand) Destination() *kernel.GeoPoint {
	return c.destination
}

// DestinationLabel returns the display label for the destination.
func (c AssignDroneCommand) DestinationLabel() string {
	return c.destinationLabel
}

// Pickup returns the optional pickup point preceding the final delivery.
func (c AssignDroneCommand) Pickup() *kernel.GeoPoint {
	return c.pickup
}

// PickupLabel returns the display label for the pickup point.
func (c AssignDroneCommand) PickupLabel() string {
	return c.pickupLabel
}

func (c *AssignDroneCommand) setDroneID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.droneID = id
	return nil
}

func (c *AssignDroneCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *AssignDroneCommand) setDestination(p *kernel.GeoPoint) error {
	if p != nil {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	c.destination = p
	return nil
}

func (c *AssignDroneCommand) setPickup(p *kernel.GeoPoint) error {
	if p != nil {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	c.pickup = p
	return nil
}
