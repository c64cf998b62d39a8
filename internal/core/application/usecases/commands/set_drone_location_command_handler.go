package commands

import (
	"context"
	"log/slog"
	"time"

	"dronefleet/internal/core/ports"
	"dronefleet/internal/telemetry"
)

// SetDroneLocationCommandHandler manually repositions a drone. The move
// bypasses the simulation: no battery drain, no status change, any active
// flight simply continues from the new coordinates on the next tick.
type SetDroneLocationCommandHandler struct {
	repo      ports.DroneRepository
	publisher telemetry.Publisher
	logger    *slog.Logger
}

// NewSetDroneLocationCommandHandler creates the reposition handler.
func NewSetDroneLocationCommandHandler(
	repo ports.DroneRepository,
	publisher telemetry.Publisher,
	logger *slog.Logger,
) SetDroneLocationCommandHandler {
	return SetDroneLocationCommandHandler{
		repo:      repo,
		publisher: publisher,
		logger:    logger.With("component", "fleet"),
	}
}

// Handle moves the drone to the commanded coordinates.
func (h SetDroneLocationCommandHandler) Handle(ctx context.Context, cmd SetDroneLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	d, err := h.repo.Get(ctx, cmd.DroneID())
	if err != nil {
		return err
	}

	if err = d.OverrideLocation(cmd.Position(), time.Now().UTC()); err != nil {
		return err
	}

	if err = h.repo.Update(ctx, d); err != nil {
		return err
	}

	h.publisher.Publish(eventFromDrone(d, telemetry.EventTypePosition, "location override"))

	h.logger.InfoContext(ctx, "drone repositioned",
		"drone_id", d.ID().String(),
		"position", d.Position().String(),
	)

	return nil
}
