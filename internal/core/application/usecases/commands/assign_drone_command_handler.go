package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dronefleet/internal/core/domain/model/kernel"
	"dronefleet/internal/core/domain/services"
	"dronefleet/internal/core/ports"
	"dronefleet/internal/pkg/errs"
	"dronefleet/internal/telemetry"
)

// AssignDroneCommandHandler is the dispatch coordinator: it attaches an
// available drone to an order, resolves the destination (explicitly provided
// or fetched from the order subsystem and geocoded), computes the ETA, and
// enrolls the vehicle in the running simulation.
//
// Failure modes follow the dispatch contract:
//   - Conflict when the drone is not available, or the order already has an
//     active drone
//   - NotFound when the drone does not exist
//   - InvalidRequest when no destination can be resolved
//   - ExternalLookupFailure when the order subsystem cannot be reached
type AssignDroneCommandHandler struct {
	repo      ports.DroneRepository
	orders    ports.OrderServiceClient
	geocoder  ports.Geocoder
	sim       ports.SimulationControl
	publisher telemetry.Publisher
	planner   services.RoutePlanner
	logger    *slog.Logger
}

// NewAssignDroneCommandHandler creates the dispatch coordinator with its
// collaborators.
func NewAssignDroneCommandHandler(
	repo ports.DroneRepository,
	orders ports.OrderServiceClient,
	geocoder ports.Geocoder,
	sim ports.SimulationControl,
	publisher telemetry.Publisher,
	logger *slog.Logger,
) AssignDroneCommandHandler {
	return AssignDroneCommandHandler{
		repo:      repo,
		orders:    orders,
		geocoder:  geocoder,
		sim:       sim,
		publisher: publisher,
		planner:   services.NewRoutePlanner(),
		logger:    logger.With("component", "dispatch"),
	}
}

// Handle dispatches the drone described by the command.
// On success the registry holds the updated record (status flying, order
// attached, ETA set) and the supervisor runs a tick loop for the vehicle.
func (h AssignDroneCommandHandler) Handle(ctx context.Context, cmd AssignDroneCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	d, err := h.repo.Get(ctx, cmd.DroneID())
	if err != nil {
		return err
	}

	// Exactly one active vehicle per order.
	if _, getErr := h.repo.GetByOrder(ctx, cmd.OrderID()); getErr == nil {
		return errs.NewConflictError("order already has an active drone")
	} else if !errors.Is(getErr, errs.ErrObjectNotFound) {
		return getErr
	}

	destination := cmd.Destination()
	destinationLabel := cmd.DestinationLabel()
	if destination == nil {
		address, addrErr := h.orders.GetDeliveryAddress(ctx, cmd.OrderID())
		if errors.Is(addrErr, errs.ErrObjectNotFound) {
			return errs.NewValueIsRequiredErrorWithCause("destination", addrErr)
		}
		if addrErr != nil {
			return errs.NewExternalLookupError("order service", addrErr)
		}
		if address == "" {
			return errs.NewValueIsRequiredError("destination")
		}

		resolved := h.geocoder.Resolve(ctx, address)
		destination = &resolved.Point
		destinationLabel = resolved.Address
	}

	firstLeg, finalLeg, err := h.planner.PlanLegs(cmd.Pickup(), cmd.PickupLabel(), *destination, destinationLabel)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	waypoints := []kernel.GeoPoint{firstLeg.Target()}
	if finalLeg != nil {
		waypoints = append(waypoints, finalLeg.Target())
	}

	eta, err := h.planner.EstimateArrival(d.Position(), d.SpeedKmh(), now, waypoints...)
	if err != nil {
		return err
	}

	if err = d.Assign(cmd.OrderID(), firstLeg, finalLeg, eta, now); err != nil {
		return err
	}

	if err = h.repo.Update(ctx, d); err != nil {
		return err
	}

	h.sim.Ensure(d.ID())
	h.publisher.Publish(eventFromDrone(d, telemetry.EventTypeStatus, "assigned"))

	h.logger.InfoContext(ctx, "drone dispatched",
		"drone_id", d.ID().String(),
		"order_id", cmd.OrderID().String(),
		"destination", firstLeg.Target().String(),
		"eta", eta,
	)

	return nil
}
